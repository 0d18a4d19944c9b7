package service

import (
	"context"
	"errors"
	"testing"

	"flipkart-scraper-api-go/internal/config"
	"flipkart-scraper-api-go/internal/model"
)

func newTestProductService(t *testing.T, fake *fakeScraper) *ProductService {
	t.Helper()
	svc, err := NewProductService(fake, testConfig(), testLogger())
	if err != nil {
		t.Fatalf("NewProductService: %v", err)
	}
	return svc
}

func TestBuildURL(t *testing.T) {
	svc := newTestProductService(t, &fakeScraper{})

	tests := []struct {
		name     string
		fragment string
		params   map[string]string
		want     string
	}{
		{
			name:     "no params",
			fragment: "mobiles/apple-iphone/p/itm123",
			want:     "https://www.flipkart.com/mobiles/apple-iphone/p/itm123",
		},
		{
			name:     "params appended",
			fragment: "mobiles/apple-iphone/p/itm123",
			params:   map[string]string{"pincode": "110001"},
			want:     "https://www.flipkart.com/mobiles/apple-iphone/p/itm123?pincode=110001",
		},
		{
			name:     "fragment query merged with params",
			fragment: "p/itm123?pid=MOB1",
			params:   map[string]string{"pincode": "110001"},
			want:     "https://www.flipkart.com/p/itm123?pid=MOB1&pincode=110001",
		},
		{
			name:     "params override fragment query",
			fragment: "p/itm123?pincode=1",
			params:   map[string]string{"pincode": "2"},
			want:     "https://www.flipkart.com/p/itm123?pincode=2",
		},
		{
			name:     "params are query-encoded",
			fragment: "p/itm123",
			params:   map[string]string{"q": "a b&c"},
			want:     "https://www.flipkart.com/p/itm123?q=a+b%26c",
		},
		{
			name:     "spaces in path are escaped",
			fragment: "red phone/p/1",
			want:     "https://www.flipkart.com/red%20phone/p/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := svc.BuildURL(tt.fragment, tt.params)
			if err != nil {
				t.Fatalf("BuildURL() error = %v", err)
			}
			if got := u.String(); got != tt.want {
				t.Errorf("BuildURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildURL_Invalid(t *testing.T) {
	svc := newTestProductService(t, &fakeScraper{})

	tests := []struct {
		name     string
		fragment string
	}{
		{"malformed escape", "p/%zz"},
		{"control character", "p/\x7f"},
		{"malformed fragment query", "p/1?a=%gg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BuildURL(tt.fragment, nil)
			var be *model.BindingError
			if !errors.As(err, &be) {
				t.Fatalf("BuildURL(%q) error = %v, want *model.BindingError", tt.fragment, err)
			}
			if be.Message != MsgInvalidProductURL {
				t.Errorf("Message = %q, want %q", be.Message, MsgInvalidProductURL)
			}
		})
	}
}

func TestBuildURL_TrailingSlashOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.Product.BaseOrigin = "https://www.flipkart.com/"
	svc, err := NewProductService(&fakeScraper{}, cfg, testLogger())
	if err != nil {
		t.Fatalf("NewProductService: %v", err)
	}

	u, err := svc.BuildURL("p/1", nil)
	if err != nil {
		t.Fatalf("BuildURL() error = %v", err)
	}
	if got, want := u.String(), "https://www.flipkart.com/p/1"; got != want {
		t.Errorf("BuildURL() = %q, want %q", got, want)
	}
}

func TestLookup_CallsCollaboratorWithURL(t *testing.T) {
	fake := &fakeScraper{result: map[string]any{"name": "iPhone", "in_stock": true}}
	svc := newTestProductService(t, fake)

	got, err := svc.Lookup(context.Background(), model.ProductRequest{
		Fragment: "mobiles/apple-iphone/p/itm123",
		Params:   map[string]string{"pincode": "110001"},
	})
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	want := "https://www.flipkart.com/mobiles/apple-iphone/p/itm123?pincode=110001"
	if fake.gotURL == nil || fake.gotURL.String() != want {
		t.Errorf("collaborator URL = %v, want %q", fake.gotURL, want)
	}
	if string(got) != `{"in_stock":true,"name":"iPhone"}` {
		t.Errorf("result = %s", got)
	}
}

func TestLookup_InvalidURLSkipsCollaborator(t *testing.T) {
	fake := &fakeScraper{}
	svc := newTestProductService(t, fake)

	_, err := svc.Lookup(context.Background(), model.ProductRequest{Fragment: "p/%zz"})

	var be *model.BindingError
	if !errors.As(err, &be) {
		t.Fatalf("Lookup() error = %v, want *model.BindingError", err)
	}
	if fake.calls != 0 {
		t.Errorf("collaborator calls = %d, want 0", fake.calls)
	}
}

func TestLookup_CollaboratorError(t *testing.T) {
	fake := &fakeScraper{err: errors.New("product page not found")}
	svc := newTestProductService(t, fake)

	_, err := svc.Lookup(context.Background(), model.ProductRequest{Fragment: "p/1"})

	var de *model.DownstreamError
	if !errors.As(err, &de) {
		t.Fatalf("Lookup() error = %v, want *model.DownstreamError", err)
	}
	if de.Message != "product page not found" {
		t.Errorf("Message = %q, want collaborator text verbatim", de.Message)
	}
}

func TestLookup_EncodeError(t *testing.T) {
	fake := &fakeScraper{result: func() {}}
	svc := newTestProductService(t, fake)

	_, err := svc.Lookup(context.Background(), model.ProductRequest{Fragment: "p/1"})

	var ee *model.EncodeError
	if !errors.As(err, &ee) {
		t.Fatalf("Lookup() error = %v, want *model.EncodeError", err)
	}
}

func TestNewProductService_BadOrigin(t *testing.T) {
	cfg := &config.Config{Product: config.ProductConfig{BaseOrigin: "://nope"}}
	if _, err := NewProductService(&fakeScraper{}, cfg, testLogger()); err == nil {
		t.Fatal("NewProductService() expected error for invalid origin, got nil")
	}
}
