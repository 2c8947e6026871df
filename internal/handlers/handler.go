// Package handlers adapts HTTP requests onto the account and task services.
// Responses are JSON; the page layer renders them.
package handlers

import (
	"afford-tracker/internal/auth"
	"afford-tracker/internal/tasks"
)

type Handler struct {
	accounts  *auth.Accounts
	tasks     *tasks.Service
	maxUpload int64
}

// New builds the handler set. maxUpload caps the size of a proof image in bytes.
func New(accounts *auth.Accounts, taskService *tasks.Service, maxUpload int64) *Handler {
	return &Handler{
		accounts:  accounts,
		tasks:     taskService,
		maxUpload: maxUpload,
	}
}
