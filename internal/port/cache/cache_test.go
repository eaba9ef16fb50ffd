package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/turnolink/turnolink/internal/port/cache"
)

type mapCache map[string][]byte

func (m mapCache) Get(_ context.Context, key string) (data []byte, ok bool, err error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m[key] = value
	return nil
}

func (m mapCache) Delete(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

type entry struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := mapCache{}

	if err := cache.SetJSON(ctx, c, "tenant:1", &entry{Name: "Salon", Status: "active"}, time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok, err := cache.GetJSON[entry](ctx, c, "tenant:1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Name != "Salon" || got.Status != "active" {
		t.Fatalf("unexpected value %+v", got)
	}
}

func TestGetJSONMiss(t *testing.T) {
	got, ok, err := cache.GetJSON[entry](context.Background(), mapCache{}, "absent")
	if err != nil || ok || got != nil {
		t.Fatalf("expected clean miss, got %v %v %v", got, ok, err)
	}
}

func TestGetJSONCorrupt(t *testing.T) {
	c := mapCache{"bad": []byte("{not json")}
	if _, _, err := cache.GetJSON[entry](context.Background(), c, "bad"); err == nil {
		t.Fatal("expected decode error")
	}
}
