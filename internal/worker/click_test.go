package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/gigmarket/gigmarket/internal/modules/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockClickApplier struct {
	mock.Mock
}

func (m *MockClickApplier) ApplyClick(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type fakeDeliveries struct {
	bodies [][]byte
	errs   []error
}

func (f *fakeDeliveries) Handle(ctx context.Context, handler func(context.Context, []byte) error) error {
	for _, b := range f.bodies {
		f.errs = append(f.errs, handler(ctx, b))
	}
	return context.Canceled
}

func TestClickWorker_HandleMessage(t *testing.T) {
	id := uuid.New()
	body := []byte(`{"project_id":"` + id.String() + `","at":"2026-01-02T03:04:05Z"}`)

	tests := []struct {
		name    string
		body    []byte
		setup   func(m *MockClickApplier)
		wantErr bool
	}{
		{
			name:  "applied",
			body:  body,
			setup: func(m *MockClickApplier) { m.On("ApplyClick", mock.Anything, id).Return(nil).Once() },
		},
		{
			name: "missing project is acked",
			body: body,
			setup: func(m *MockClickApplier) {
				m.On("ApplyClick", mock.Anything, id).Return(projectNotFound()).Once()
			},
		},
		{
			name: "transient failure requeues",
			body: body,
			setup: func(m *MockClickApplier) {
				m.On("ApplyClick", mock.Anything, id).Return(errors.New("connection reset")).Once()
			},
			wantErr: true,
		},
		{
			name:  "malformed body is dropped",
			body:  []byte(`{not json`),
			setup: func(m *MockClickApplier) {},
		},
		{
			name:  "missing project id is dropped",
			body:  []byte(`{"at":"2026-01-02T03:04:05Z"}`),
			setup: func(m *MockClickApplier) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockClickApplier{}
			tt.setup(m)
			w := NewClickWorker(m, zap.NewNop())

			err := w.HandleMessage(context.Background(), tt.body)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestClickWorker_RunStopsCleanly(t *testing.T) {
	id := uuid.New()
	m := &MockClickApplier{}
	m.On("ApplyClick", mock.Anything, id).Return(nil).Twice()

	in := &fakeDeliveries{bodies: [][]byte{
		[]byte(`{"project_id":"` + id.String() + `"}`),
		[]byte(`{"project_id":"` + id.String() + `"}`),
	}}
	err := NewClickWorker(m, zap.NewNop()).Run(context.Background(), in)

	assert.NoError(t, err)
	assert.Equal(t, []error{nil, nil}, in.errs)
	m.AssertExpectations(t)
}

func projectNotFound() error {
	return &service.Error{Kind: service.ErrNotFound, Msg: "project not found"}
}
