package webclient

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/semanticallynull/customerrecords/customer"
	"github.com/semanticallynull/customerrecords/internal/middleware"
	"github.com/semanticallynull/customerrecords/internal/o11y"
)

//go:embed templates/*.html
var templates embed.FS

// CustomerClient is the subset of the API the pages use.
type CustomerClient interface {
	List(ctx context.Context) ([]customer.Customer, error)
	Get(ctx context.Context, id string) (customer.Customer, error)
	Post(ctx context.Context, cust customer.Customer) (string, error)
	Delete(ctx context.Context, id string) (string, error)
	ConsoleURL(ctx context.Context) (string, error)
}

// indexPage is the view model for a single render of the customer page.
type indexPage struct {
	AllCustomers     []customer.Customer
	SelectedCustomer customer.Customer
	FormResponse     string
}

type Pages struct {
	r      *gin.Engine
	client CustomerClient
}

func New(client CustomerClient, obs *o11y.Observability) *Pages {
	p := &Pages{
		r:      gin.New(),
		client: client,
	}

	p.r.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/*.html")))
	p.r.Use(
		gin.Recovery(),
		middleware.Tracing("customer-webclient"),
		middleware.Logging(obs.Logger),
		middleware.Metrics(obs.Registry),
	)

	p.r.GET("/", p.indexHandler)
	p.r.POST("/customers", p.modifyCustomerHandler)
	p.r.POST("/customers/:id/delete", p.deleteCustomerHandler)
	p.r.GET("/console", p.consoleHandler)

	return p
}

func (p *Pages) Router() *gin.Engine {
	return p.r
}

func (p *Pages) indexHandler(c *gin.Context) {
	var page indexPage

	if id := c.Query("select"); id != "" {
		selected, err := p.client.Get(c.Request.Context(), id)
		switch {
		case errors.Is(err, ErrNotFound):
			page.FormResponse = customer.NotFound.Message()
		case err != nil:
			p.fail(c, "failed to load customer", err)
			return
		default:
			page.SelectedCustomer = selected
		}
	}

	p.render(c, page)
}

// modifyCustomerHandler adds or updates the record from the form. A blank id
// submits a new record. The form keeps its input after a duplicate so the
// user can correct it.
func (p *Pages) modifyCustomerHandler(c *gin.Context) {
	page := indexPage{
		SelectedCustomer: customer.Customer{
			ID:      c.PostForm("id"),
			Name:    c.PostForm("name"),
			Address: c.PostForm("address"),
		},
	}

	resp, err := p.client.Post(c.Request.Context(), page.SelectedCustomer)
	if err != nil {
		p.fail(c, "failed to save customer", err)
		return
	}
	page.FormResponse = resp
	if resp != customer.RejectedDuplicate.Message() {
		page.SelectedCustomer = customer.Customer{}
	}

	p.render(c, page)
}

func (p *Pages) deleteCustomerHandler(c *gin.Context) {
	resp, err := p.client.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		p.fail(c, "failed to delete customer", err)
		return
	}

	p.render(c, indexPage{FormResponse: resp})
}

func (p *Pages) consoleHandler(c *gin.Context) {
	target, err := p.client.ConsoleURL(c.Request.Context())
	if err != nil {
		p.fail(c, "failed to open console", err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// render loads the full customer list and draws the page.
func (p *Pages) render(c *gin.Context, page indexPage) {
	all, err := p.client.List(c.Request.Context())
	if err != nil {
		p.fail(c, "failed to load customers", err)
		return
	}
	page.AllCustomers = all

	c.HTML(http.StatusOK, "index.html", page)
}

func (p *Pages) fail(c *gin.Context, msg string, err error) {
	middleware.GetLogger(c).ErrorContext(c.Request.Context(), msg, "error", err)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": msg, "Error": err.Error()})
}
