package model

import (
	"context"
	"log/slog"
	"time"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/config"
	"github.com/owl-K/nebula-carina/dialect"
	"github.com/owl-K/nebula-carina/ngql"
	"github.com/owl-K/nebula-carina/schema"
)

// Client binds an executor, a schema registry and connection settings.
// It is itself a dialect.Executor that runs statements in the default
// space unless the context selects another one.
type Client struct {
	ex     dialect.Executor
	reg    *schema.Registry
	cfg    config.ConnectionConfig
	loc    *time.Location
	logger *slog.Logger
	cache  carina.Cache
	ttl    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithConfig sets the connection settings. Defaults to config.Default().
func WithConfig(cfg config.ConnectionConfig) ClientOption {
	return func(c *Client) { c.cfg = cfg }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithCache caches fetched vertices and edges in cache for ttl. A zero ttl
// keeps entries until they are invalidated.
func WithCache(cache carina.Cache, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = cache
		c.ttl = ttl
	}
}

// NewClient returns a client. The settings are validated and read once.
func NewClient(ex dialect.Executor, reg *schema.Registry, opts ...ClientOption) (*Client, error) {
	c := &Client{
		ex:     ex,
		reg:    reg,
		cfg:    config.Default(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := c.cfg.Location()
	if err != nil {
		return nil, err
	}
	c.loc = loc
	return c, nil
}

// Registry returns the schema registry.
func (c *Client) Registry() *schema.Registry { return c.reg }

// Config returns the connection settings.
func (c *Client) Config() config.ConnectionConfig { return c.cfg }

// Location returns the time zone datetime values are materialized in.
func (c *Client) Location() *time.Location { return c.loc }

// Execute implements dialect.Executor.
func (c *Client) Execute(ctx context.Context, stmt string) (dialect.Rows, error) {
	if _, ok := dialect.SpaceFromContext(ctx); !ok {
		ctx = dialect.WithSpace(ctx, c.cfg.DefaultSpace)
	}
	space, _ := dialect.SpaceFromContext(ctx)
	c.logger.DebugContext(ctx, "execute", "space", space, "statement", stmt)
	rows, err := c.ex.Execute(ctx, stmt)
	if err != nil {
		c.logger.DebugContext(ctx, "execute failed", "space", space, "statement", stmt, "error", err)
		return nil, execError(ctx, stmt, err)
	}
	return rows, nil
}

// Init creates the default space when AutoCreateDefaultSpaceWithVIDDesc
// is set. It runs outside any space.
func (c *Client) Init(ctx context.Context) error {
	desc := c.cfg.AutoCreateDefaultSpaceWithVIDDesc
	if desc == "" {
		return nil
	}
	stmt := ngql.CreateSpace(c.cfg.DefaultSpace, ngql.SpaceOptions{VIDType: desc})
	c.logger.InfoContext(ctx, "creating default space", "space", c.cfg.DefaultSpace, "vid_type", desc)
	return run(ctx, c.ex, "create_space", c.cfg.DefaultSpace, stmt)
}

// Vertices returns the manager of the registered vertex schema vs.
func (c *Client) Vertices(vs schema.VertexSchema) (*VertexManager, error) {
	vt, err := c.reg.Vertex(vs)
	if err != nil {
		return nil, err
	}
	return &VertexManager{c: c, vt: vt}, nil
}

// Edges returns the edge manager.
func (c *Client) Edges() *EdgeManager {
	return &EdgeManager{c: c}
}

func (c *Client) space(ctx context.Context) string {
	if s, ok := dialect.SpaceFromContext(ctx); ok {
		return s
	}
	return c.cfg.DefaultSpace
}

var _ dialect.Executor = (*Client)(nil)
