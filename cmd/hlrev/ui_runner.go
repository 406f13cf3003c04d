package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"hlrev/internal/batch"
	"hlrev/internal/ui"
)

type batchOutcome struct {
	result batch.Result
	err    error
}

// runBatchWithUI runs req in the background while a progress view consumes
// its events.
func runBatchWithUI(ctx context.Context, out io.Writer, title string, names []string, req batch.Request) (batch.Result, error) {
	events := make(chan batch.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		req.Progress = batch.ChannelSink{Ch: events}
		res, err := batch.Run(ctx, &req)
		close(events)
		outcomeCh <- batchOutcome{result: res, err: err}
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, names, events), tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// the view may quit early; the batch must still be able to send
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
