package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Sternrassler/catalog-pager/pkg/catalog"
)

// ProductsEndpoint is the catalog listing path.
const ProductsEndpoint = "/products"

// SelectFields restricts the listing to the columns the view shows.
// The id field is always returned.
const SelectFields = "title,price,rating"

type productsResponse struct {
	Products []catalog.Product `json:"products"`
	Total    int               `json:"total"`
	Skip     int               `json:"skip"`
	Limit    int               `json:"limit"`
}

// FetchPage fetches limit products starting at offset.
// It implements catalog.DataSource.
func (c *Client) FetchPage(ctx context.Context, offset, limit int) (catalog.Page, error) {
	if offset < 0 {
		return catalog.Page{}, fmt.Errorf("%w: offset %d < 0", ErrInvalidQuery, offset)
	}
	if limit <= 0 {
		return catalog.Page{}, fmt.Errorf("%w: limit %d <= 0", ErrInvalidQuery, limit)
	}

	query := url.Values{
		"limit":  []string{strconv.Itoa(limit)},
		"skip":   []string{strconv.Itoa(offset)},
		"select": []string{SelectFields},
	}

	resp, err := c.Get(ctx, ProductsEndpoint, query)
	if err != nil {
		return catalog.Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return catalog.Page{}, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: classifyStatus(resp.StatusCode),
			Message:    resp.Status,
		}
	}

	var body productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return catalog.Page{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if body.Total < 0 {
		return catalog.Page{}, fmt.Errorf("%w: negative total %d", ErrDecode, body.Total)
	}

	c.logger.Debug().
		Int("offset", offset).
		Int("limit", limit).
		Int("items", len(body.Products)).
		Int("total", body.Total).
		Msg("Fetched catalog page")

	return catalog.Page{Items: body.Products, Total: body.Total}, nil
}
