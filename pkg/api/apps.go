package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dkoosis/apptrack/internal/errors"
	"github.com/dkoosis/apptrack/pkg/record"
)

// listAllPageSize is the page size ListAll requests.
const listAllPageSize = 100

// maxPages stops ListAll on a server that never reports a last page.
const maxPages = 1000

// ListParams filters GET /apps. Page is 1-based; zero means the first page.
type ListParams struct {
	Page   int
	Size   int
	Status record.Status
	Query  string
	From   *time.Time
	To     *time.Time
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	page := p.Page - 1
	if page < 0 {
		page = 0
	}
	q.Set("page", strconv.Itoa(page))
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	if s := strings.TrimSpace(p.Query); s != "" {
		q.Set("q", s)
	}
	if p.From != nil {
		q.Set("from", p.From.UTC().Format(time.RFC3339))
	}
	if p.To != nil {
		q.Set("to", p.To.UTC().Format(time.RFC3339))
	}
	return q
}

// AppPage is one page of GET /apps. Page is 1-based.
type AppPage struct {
	Items         []record.Record
	Page          int
	TotalPages    int
	TotalElements int
}

type pageBody struct {
	Content       []record.Record `json:"content"`
	TotalPages    int             `json:"totalPages"`
	TotalElements int             `json:"totalElements"`
}

// ListApps fetches one page. The server answers either with a page object or
// with a bare array; a bare array is reported as a single complete page.
func (c *Client) ListApps(ctx context.Context, p ListParams) (AppPage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "GET", "/apps", p.values(), nil, &raw); err != nil {
		return AppPage{}, errors.Wrap(err, "list applications")
	}
	return decodePage(raw, max(p.Page, 1))
}

func decodePage(raw json.RawMessage, number int) (AppPage, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var items []record.Record
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return AppPage{}, errors.Mark(errors.Wrap(err, "decode application list"), errors.ErrServer)
		}
		pages := 1
		if len(items) == 0 {
			pages = 0
		}
		return AppPage{Items: nonNil(items), Page: 1, TotalPages: pages, TotalElements: len(items)}, nil
	}

	var body pageBody
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return AppPage{}, errors.Mark(errors.Wrap(err, "decode application page"), errors.ErrServer)
	}
	return AppPage{
		Items:         nonNil(body.Content),
		Page:          number,
		TotalPages:    body.TotalPages,
		TotalElements: body.TotalElements,
	}, nil
}

// ListAll walks every page of GET /apps. It satisfies store.Source.
func (c *Client) ListAll(ctx context.Context) ([]record.Record, error) {
	var all []record.Record
	for n := 1; n <= maxPages; n++ {
		page, err := c.ListApps(ctx, ListParams{Page: n, Size: listAllPageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if n >= page.TotalPages || len(page.Items) == 0 {
			break
		}
	}
	return nonNil(all), nil
}

// GetApp fetches one application.
func (c *Client) GetApp(ctx context.Context, id string) (record.Record, error) {
	var r record.Record
	if err := c.do(ctx, "GET", "/apps/"+escape(id), nil, nil, &r); err != nil {
		return record.Record{}, errors.Wrapf(err, "get application %s", id)
	}
	return r, nil
}

// CreateApp creates an application. Input with missing required fields is
// rejected before any request is sent.
func (c *Client) CreateApp(ctx context.Context, in record.Input) (record.Record, error) {
	if err := validate(in); err != nil {
		return record.Record{}, err
	}
	var r record.Record
	if err := c.do(ctx, "POST", "/apps", nil, in, &r); err != nil {
		return record.Record{}, errors.Wrap(err, "create application")
	}
	return r, nil
}

// UpdateApp replaces the writable fields of an application.
func (c *Client) UpdateApp(ctx context.Context, id string, in record.Input) (record.Record, error) {
	if err := validate(in); err != nil {
		return record.Record{}, err
	}
	var r record.Record
	if err := c.do(ctx, "PUT", "/apps/"+escape(id), nil, in, &r); err != nil {
		return record.Record{}, errors.Wrapf(err, "update application %s", id)
	}
	return r, nil
}

// DeleteApp deletes an application.
func (c *Client) DeleteApp(ctx context.Context, id string) error {
	if err := c.do(ctx, "DELETE", "/apps/"+escape(id), nil, nil, nil); err != nil {
		return errors.Wrapf(err, "delete application %s", id)
	}
	return nil
}

// UpdateStatus moves an application to status. It satisfies
// optimistic.StatusUpdater.
func (c *Client) UpdateStatus(ctx context.Context, id string, status record.Status) (record.Record, error) {
	if !status.Known() {
		return record.Record{}, errors.Validationf("unknown status %q", status)
	}
	body := struct {
		Status record.Status `json:"status"`
	}{status}
	var r record.Record
	if err := c.do(ctx, "PATCH", "/apps/"+escape(id)+"/status", nil, body, &r); err != nil {
		return record.Record{}, errors.Wrapf(err, "move application %s to %s", id, status)
	}
	return r, nil
}

// SetArchived flips the archived flag with a read-modify-write.
func (c *Client) SetArchived(ctx context.Context, id string, archived bool) (record.Record, error) {
	r, err := c.GetApp(ctx, id)
	if err != nil {
		return record.Record{}, err
	}
	in := record.InputOf(r)
	in.Archived = archived
	return c.UpdateApp(ctx, id, in)
}

func validate(in record.Input) error {
	missing := in.Missing()
	if len(missing) == 0 {
		return nil
	}
	return errors.WithHint(
		errors.Validationf("missing required fields: %s", strings.Join(missing, ", ")),
		"company and role are required")
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
