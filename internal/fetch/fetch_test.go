package fetch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type menu struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestGet_DecodesEnvelopeOncePerCall(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"1","name":"Kopi Susu"}}`))
	}))
	defer srv.Close()

	c := NewClient(2 * time.Second)
	for i := 0; i < 2; i++ {
		var m menu
		if err := c.Get(context.Background(), srv.URL, &m); err != nil {
			t.Fatal(err)
		}
		if m.Name != "Kopi Susu" {
			t.Fatalf("m=%+v", m)
		}
	}
	if hits != 2 {
		t.Fatalf("hits=%d, want one request per call", hits)
	}
}

func TestGet_FailureShapes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   int
	}{
		{"not found", http.StatusNotFound, `{"success":false,"message":"menu not found"}`, http.StatusNotFound},
		{"success false", http.StatusOK, `{"success":false,"message":"nope"}`, http.StatusOK},
		{"server error without body", http.StatusBadGateway, ``, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			err := NewClient(time.Second).Get(context.Background(), srv.URL, nil)
			var fe *Error
			if !errors.As(err, &fe) || fe.Status != tc.want {
				t.Fatalf("err=%v", err)
			}
			if tc.want == http.StatusNotFound && !NotFound(err) {
				t.Fatalf("NotFound(%v)=false", err)
			}
		})
	}
}

func TestGet_Offline(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	err = NewClient(time.Second).Get(context.Background(), "http://"+addr+"/products", nil)
	if !errors.Is(err, ErrOffline) {
		t.Fatalf("err=%v, want ErrOffline", err)
	}
}

func TestSlot_SupersedesSameKey(t *testing.T) {
	s := NewSlot()
	started := make(chan struct{})
	var wg sync.WaitGroup
	var first Result[string]

	wg.Add(1)
	go func() {
		defer wg.Done()
		first = Load(context.Background(), s, "products?q=latte", func(ctx context.Context) (string, error) {
			close(started)
			<-ctx.Done()
			return "stale", ctx.Err()
		})
	}()
	<-started
	if !s.Loading("products?q=latte") {
		t.Fatalf("expected in-flight load")
	}

	second := Load(context.Background(), s, "products?q=latte", func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	wg.Wait()

	if !errors.Is(first.Err, ErrSuperseded) || first.Data != "" {
		t.Fatalf("first=%+v, want superseded", first)
	}
	if second.Err != nil || second.Data != "fresh" {
		t.Fatalf("second=%+v", second)
	}
	if s.Loading("products?q=latte") {
		t.Fatalf("slot should be idle")
	}
}

func TestSlot_IndependentKeys(t *testing.T) {
	s := NewSlot()
	a := Load(context.Background(), s, "a", func(ctx context.Context) (int, error) { return 1, nil })
	b := Load(context.Background(), s, "b", func(ctx context.Context) (int, error) { return 0, errors.New("boom") })
	if a.Data != 1 || a.Err != nil {
		t.Fatalf("a=%+v", a)
	}
	if b.Err == nil || b.Err.Error() != "boom" {
		t.Fatalf("b=%+v", b)
	}
}

func TestSlot_CloseCancelsInFlight(t *testing.T) {
	s := NewSlot()
	started := make(chan struct{})
	done := make(chan Result[int])
	go func() {
		done <- Load(context.Background(), s, "k", func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})
	}()
	<-started
	s.Close()

	select {
	case r := <-done:
		if !errors.Is(r.Err, ErrSuperseded) {
			t.Fatalf("r=%+v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("load not cancelled by Close")
	}
}
