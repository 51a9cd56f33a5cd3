package jobsapi

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/jobrank/internal/postings"
)

const (
	SearchPath = "/postings"
)

func (c *Client) search(ctx context.Context, q postings.Query) ([]*postings.Posting, error) {
	var items []*postings.Posting

	params := buildParams(q)
	// Set per_page max as possible. It should be faster.
	size := perPage
	if q.Limit > 0 && q.Limit < perPage {
		size = q.Limit
	}
	params.Set("per_page", strconv.Itoa(size))

	apiURLSearch := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	raw, err := c.GetItems(ctx, apiURLSearch, params, q.Limit)
	if err != nil {
		return nil, err
	}

	cfg := &mapstructure.DecoderConfig{
		Result:           &items,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode postings: %w", err)
	}

	return items, nil
}

// buildParams turns the set fields of q into query parameters named after
// their mapstructure tags. Limit is handled by paging.
func buildParams(q postings.Query) url.Values {
	params := url.Values{}
	v := reflect.ValueOf(q)
	for _, field := range reflect.VisibleFields(v.Type()) {
		key := field.Tag.Get("mapstructure")
		if key == "" || key == "limit" {
			continue
		}

		value := fmt.Sprintf("%v", v.FieldByIndex(field.Index).Interface())
		if value != "" && value != "0" {
			params.Set(key, value)
		}
	}

	return params
}
