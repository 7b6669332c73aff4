//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, businessPath+"/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 3 {
		t.Fatalf("expected 3 seeded products, got %d", len(products))
	}
	for _, p := range products {
		if p.Tags == nil {
			t.Fatalf("product %s has no tags array", p.ID)
		}
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, businessPath+"/products/"+jollofID)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	p := decodeJSON[productResponse](t, resp)
	if p.Price != "5.00" {
		t.Fatalf("expected price 5.00, got %s", p.Price)
	}
}

func TestGetProductCrossBusiness(t *testing.T) {
	resp := doGet(t, "/api/businesses/biz-accra-crafts/products/"+jollofID)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("product must be invisible to other businesses, got %d", resp.StatusCode)
	}
}
