package workers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingWorker tracks lifecycle calls and their global order.
type recordingWorker struct {
	name  string
	order *[]string
}

func (w *recordingWorker) Start(_ context.Context) {
	*w.order = append(*w.order, "start:"+w.name)
}

func (w *recordingWorker) Stop() {
	*w.order = append(*w.order, "stop:"+w.name)
}

func TestWorkers_StartOrderAndReverseStop(t *testing.T) {
	var order []string
	ws := NewWorkers(
		&recordingWorker{name: "a", order: &order},
		&recordingWorker{name: "b", order: &order},
	)

	ws.StartAll(context.Background())
	ws.StopAll()

	assert.Equal(t, []string{"start:a", "start:b", "stop:b", "stop:a"}, order)
}

func TestWorkers_EmptySetIsSafe(t *testing.T) {
	ws := NewWorkers()

	ws.StartAll(context.Background())
	ws.StopAll()
}
