package notifier

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nahoc/boundless-ws/pkg/config"
	loggerMock "github.com/nahoc/boundless-ws/pkg/logger/mock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRevalidator_Notify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var requests atomic.Int32
	hit := make(chan struct{}, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		hit <- struct{}{}
	}))
	defer server.Close()

	revalidator := NewRevalidator(
		config.NotifierConfig{URL: server.URL, Interval: 10 * time.Second},
		loggerMock.NewMockInterface(ctrl),
	)

	revalidator.Notify()
	<-hit

	// calls inside the window are absorbed
	revalidator.Notify()
	revalidator.Notify()

	assert.Equal(t, int32(1), requests.Load())

	// the next window sends again
	revalidator.mu.Lock()
	revalidator.lastSent = time.Now().Add(-11 * time.Second)
	revalidator.mu.Unlock()

	revalidator.Notify()
	<-hit
	assert.Equal(t, int32(2), requests.Load())
}

func TestRevalidator_UnreachableEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lg := loggerMock.NewMockInterface(ctrl)
	logged := make(chan struct{}, 1)
	lg.EXPECT().Debug(gomock.Any(), gomock.Any()).Do(func(any, ...any) {
		logged <- struct{}{}
	})

	revalidator := NewRevalidator(
		config.NotifierConfig{URL: "http://127.0.0.1:1", Interval: time.Second},
		lg,
	)

	// the failure is logged, never surfaced
	revalidator.Notify()

	select {
	case <-logged:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for failure log")
	}
}
