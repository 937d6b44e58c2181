// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run() error
}

// UI is the interactive front end driven by [App].
type UI interface {
	// AuthFlow blocks until a session has started. It returns tui.ErrUserQuit
	// when the user leaves instead.
	AuthFlow(ctx context.Context) error
	// MainLoop blocks until the user signs out (logout is true) or quits.
	MainLoop(ctx context.Context) (logout bool, err error)
}
