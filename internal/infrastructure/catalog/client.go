package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/craftlane/settlement-service/internal/domain"
)

// HTTPCatalogClient reads listings and seller payout capability from the
// marketplace core service. Both lookups are read-only here.
type HTTPCatalogClient struct {
	Address string
	client  *http.Client
}

func NewHTTPCatalogClient(address string, timeout time.Duration) *HTTPCatalogClient {
	return &HTTPCatalogClient{
		Address: address,
		client:  &http.Client{Timeout: timeout},
	}
}

type listingResponse struct {
	ID       string `json:"id"`
	SellerID string `json:"seller_id"`
	Price    int64  `json:"price"`
	Active   bool   `json:"active"`
}

type sellerResponse struct {
	PayoutAccountID string `json:"payout_account_id"`
	PayoutCapable   bool   `json:"payout_capable"`
}

func (c *HTTPCatalogClient) GetListing(ctx context.Context, listingID string) (domain.Listing, bool, error) {
	var listing listingResponse
	found, err := c.get(ctx, fmt.Sprintf("%s/listings/%s", c.Address, listingID), &listing)
	if err != nil || !found {
		return domain.Listing{}, false, err
	}

	return domain.Listing{
		ID:       listing.ID,
		SellerID: listing.SellerID,
		Price:    domain.Money(listing.Price),
		Active:   listing.Active,
	}, true, nil
}

func (c *HTTPCatalogClient) PayoutAccountID(ctx context.Context, sellerID string) (string, bool, error) {
	var seller sellerResponse
	found, err := c.get(ctx, fmt.Sprintf("%s/sellers/%s/payout-account", c.Address, sellerID), &seller)
	if err != nil || !found {
		return "", false, err
	}
	if !seller.PayoutCapable || seller.PayoutAccountID == "" {
		return "", false, nil
	}
	return seller.PayoutAccountID, true, nil
}

func (c *HTTPCatalogClient) get(ctx context.Context, url string, out any) (bool, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	response, err := c.client.Do(request)
	if err != nil {
		return false, err
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return false, fmt.Errorf("catalog returned status %d", response.StatusCode)
	}

	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return false, err
	}

	return true, json.Unmarshal(responseBodyBytes, out)
}
