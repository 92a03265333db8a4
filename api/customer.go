package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/semanticallynull/customerrecords/customer"
	"github.com/semanticallynull/customerrecords/internal/middleware"
)

func (a *API) listCustomersHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	customers, err := a.cs.List(c.Request.Context())
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "failed to list customers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if customers == nil {
		customers = []customer.Customer{}
	}

	c.JSON(http.StatusOK, customers)
}

func (a *API) getCustomerHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	cust, err := a.cs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.ErrorContext(c.Request.Context(), "failed to get customer", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, cust)
}

// postCustomerHandler adds or updates a customer. The body is a JSON string
// holding the serialized customer; a bare JSON object is accepted as well.
func (a *API) postCustomerHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	body, err := c.GetRawData()
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "failed to read request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	var outcome customer.Outcome
	candidate, err := decodePayload(body)
	if err != nil {
		logger.WarnContext(c.Request.Context(), "rejected customer payload", "error", err)
		outcome = customer.InvalidInput
	} else {
		outcome, err = a.cs.Post(c.Request.Context(), candidate)
		if err != nil {
			logger.ErrorContext(c.Request.Context(), "failed to save customer", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
	}

	a.outcomes.WithLabelValues(outcome.String()).Inc()
	logger.InfoContext(c.Request.Context(), "customer write", "outcome", outcome.String())
	c.String(http.StatusOK, outcome.Message())
}

func decodePayload(body []byte) (*customer.Customer, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '"' {
		var inner string
		if err := json.Unmarshal(body, &inner); err != nil {
			return nil, errors.Join(customer.ErrInvalid, err)
		}
		body = []byte(inner)
	}
	return customer.Parse(body)
}

func (a *API) deleteCustomerHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)
	id := c.Param("id")

	outcome, existed, err := a.cs.Delete(c.Request.Context(), id)
	a.outcomes.WithLabelValues(outcome.String()).Inc()
	if err != nil {
		// The failure text goes back as a normal response so callers can show it.
		logger.ErrorContext(c.Request.Context(), "failed to delete customer", "customerId", id, "error", err)
		c.String(http.StatusOK, outcome.Message())
		return
	}
	if !existed {
		logger.InfoContext(c.Request.Context(), "deleted customer did not exist", "customerId", id)
	}

	c.String(http.StatusOK, outcome.Message())
}
