// Package model holds the backend-owned records grantdesk mirrors into view
// state: requests, their approval workflow, comments, and notifications.
//
// None of these types are persisted client-side. They are decoded from the
// backend's JSON responses and only mutated locally when a newly created
// comment is appended to a loaded thread.
package model
