package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"elecnet/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	ErrEmptyName        = errors.New("endpoint name is required")
	ErrInvalidName      = errors.New("endpoint name must contain only letters, digits, hyphens and underscores")
	ErrEndpointExists   = errors.New("endpoint already exists")
	ErrEndpointNotFound = errors.New("endpoint not found")
	ErrNotReadOnly      = errors.New("sql template must be a single SELECT statement")
)

// name doubles as a URL path segment, so keep it to safe characters
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Registry owns the name → SQL template mapping behind the dynamic
// query endpoints. Registrations are written to
// network.registered_endpoints before they are published in memory, so
// they survive restarts; Load rehydrates the map at startup.
//
// Routing never mutates at runtime: a single catch-all route
// ({prefix}/custom/{name}) resolves the name here per request.
type Registry struct {
	db     *bun.DB
	prefix string

	mu        sync.RWMutex
	endpoints map[string]string
}

func New(db *bun.DB, prefix string) *Registry {
	return &Registry{
		db:        db,
		prefix:    strings.TrimSuffix(prefix, "/"),
		endpoints: make(map[string]string),
	}
}

// Register validates and stores a new dynamic endpoint and returns the
// path it is reachable at. The check-and-insert runs under the write
// lock, so of two concurrent registrations with the same name exactly
// one succeeds; the other observes ErrEndpointExists.
func (r *Registry) Register(ctx context.Context, name, sqlTemplate string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if !namePattern.MatchString(name) {
		return "", ErrInvalidName
	}
	if err := validateReadOnly(sqlTemplate); err != nil {
		return "", err
	}

	path := r.PathFor(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.endpoints[name]; ok {
		return "", ErrEndpointExists
	}

	endpoint := &models.RegisteredEndpoint{
		Name:        name,
		SQLTemplate: sqlTemplate,
		Path:        path,
	}
	if _, err := r.db.NewInsert().Model(endpoint).Exec(ctx); err != nil {
		// another process may have won the race on the table
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == "23505" {
			return "", ErrEndpointExists
		}
		return "", fmt.Errorf("failed to persist endpoint %q: %w", name, err)
	}

	r.endpoints[name] = sqlTemplate
	return path, nil
}

// Load rehydrates the in-memory map from the registered_endpoints
// table. Called once at startup; the table primary key guarantees the
// entries are already unique.
func (r *Registry) Load(ctx context.Context) (int, error) {
	var stored []models.RegisteredEndpoint
	if err := r.db.NewSelect().Model(&stored).Scan(ctx); err != nil {
		return 0, fmt.Errorf("failed to load registered endpoints: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ep := range stored {
		r.endpoints[ep.Name] = ep.SQLTemplate
	}
	return len(stored), nil
}

// List returns all durable registrations, newest first.
func (r *Registry) List(ctx context.Context) ([]models.RegisteredEndpoint, error) {
	var stored []models.RegisteredEndpoint
	err := r.db.NewSelect().
		Model(&stored).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered endpoints: %w", err)
	}
	return stored, nil
}

// Lookup returns the SQL template bound to name. Read lock only; the
// template is immutable once registered.
func (r *Registry) Lookup(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tmpl, ok := r.endpoints[name]
	return tmpl, ok
}

// Len reports the number of registered endpoints.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.endpoints)
}

// PathFor derives the request path for a registered name.
func (r *Registry) PathFor(name string) string {
	return r.prefix + "/custom/" + name
}

// Execute runs the template registered under name, binding request
// query parameters by name, and returns the rows as ordered
// column → value records. Parameters the template does not reference
// are ignored; a referenced parameter with no supplied value is an
// execution failure.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]string) ([]map[string]any, error) {
	tmpl, ok := r.Lookup(name)
	if !ok {
		return nil, ErrEndpointNotFound
	}

	query, args, err := bindNamed(tmpl, params)
	if err != nil {
		return nil, fmt.Errorf("endpoint %q failed: %w", name, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("endpoint %q failed: %w", name, err)
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("endpoint %q failed: %w", name, err)
	}
	return results, nil
}

// validateReadOnly constrains templates to a single SELECT (or CTE)
// statement. The check is lexical, not a parse; it exists to reject
// writes and statement stacking, not to validate syntax.
func validateReadOnly(sqlTemplate string) error {
	trimmed := strings.TrimSpace(sqlTemplate)
	if trimmed == "" {
		return ErrNotReadOnly
	}

	first := strings.ToUpper(strings.Fields(trimmed)[0])
	if first != "SELECT" && first != "WITH" {
		return ErrNotReadOnly
	}

	// a trailing semicolon is fine, an embedded one is statement
	// stacking; semicolons inside string literals are data
	inString := false
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if inString {
			if c == '\'' {
				inString = false
			}
			continue
		}
		switch c {
		case '\'':
			inString = true
		case ';':
			if strings.TrimRight(trimmed[i+1:], "; \t\r\n") != "" {
				return ErrNotReadOnly
			}
			return nil
		}
	}
	return nil
}

// bindNamed rewrites :param placeholders to positional ? placeholders
// and collects their values in order. Single-quoted literals and
// Postgres :: casts pass through untouched. Every referenced parameter
// must be supplied; values reach the database exclusively as bound
// arguments, never by interpolation into the template text.
func bindNamed(tmpl string, params map[string]string) (string, []any, error) {
	var (
		out  strings.Builder
		args []any
	)
	out.Grow(len(tmpl))

	inString := false
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]

		if inString {
			out.WriteByte(c)
			if c == '\'' {
				inString = false
			}
			continue
		}

		switch {
		case c == '\'':
			inString = true
			out.WriteByte(c)

		case c == ':' && i+1 < len(tmpl) && tmpl[i+1] == ':':
			// type cast, not a parameter
			out.WriteString("::")
			i++

		case c == ':' && i+1 < len(tmpl) && isIdentStart(tmpl[i+1]):
			j := i + 1
			for j < len(tmpl) && isIdentPart(tmpl[j]) {
				j++
			}
			key := tmpl[i+1 : j]
			val, ok := params[key]
			if !ok {
				return "", nil, fmt.Errorf("no value supplied for parameter %q", key)
			}
			args = append(args, val)
			out.WriteByte('?')
			i = j - 1

		default:
			out.WriteByte(c)
		}
	}

	return out.String(), args, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// scanRows converts a generic result set into column → value maps,
// preserving the database's row order.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		record := make(map[string]any, len(cols))
		for i, col := range cols {
			v := values[i]
			// drivers hand text columns back as raw bytes
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			record[col] = v
		}
		results = append(results, record)
	}
	return results, rows.Err()
}
