package service

import (
	"net/url"
	"strconv"

	"github.com/rshade/grantdesk/internal/model"
)

// notificationQuery converts a filter into query values. Unset keys are omitted.
func notificationQuery(f model.NotificationFilter) url.Values {
	q := url.Values{}
	if f.IsRead != nil {
		q.Set("is_read", strconv.FormatBool(*f.IsRead))
	}
	if f.Limit != nil {
		q.Set("limit", strconv.Itoa(*f.Limit))
	}
	if f.Offset != nil {
		q.Set("offset", strconv.Itoa(*f.Offset))
	}
	return q
}

// requestQuery converts a request filter into query values. Empty strings and
// nil pointers are omitted.
func requestQuery(f model.RequestFilter) url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.RequestType != "" {
		q.Set("request_type", f.RequestType)
	}
	if f.Limit != nil {
		q.Set("limit", strconv.Itoa(*f.Limit))
	}
	if f.Offset != nil {
		q.Set("offset", strconv.Itoa(*f.Offset))
	}
	return q
}
