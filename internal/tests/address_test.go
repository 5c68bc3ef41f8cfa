package tests

import (
	"context"
	"errors"
	"testing"

	"taxiye/internal/geocode"
	"taxiye/internal/service"
)

// ──────────────────────────────────────────────
// 5. SAVED ADDRESSES
// ──────────────────────────────────────────────

func TestSaveAddress_GeocodesWhenServiceAvailable(t *testing.T) {
	t.Parallel()

	addressRepo := NewMockAddressRepository()
	geocoder := NewMockGeocoder()
	geocoder.AddResult("Bole Medhane Alem", &geocode.Result{
		Address: "Bole Medhane Alem Cathedral, Addis Ababa",
		Lat:     8.9936,
		Lng:     38.7866,
		PlaceID: "place-123",
	})
	svc := service.NewAddressService(addressRepo, geocoder, nil)

	addr, err := svc.SaveAddress(context.Background(), service.SaveAddressRequest{
		UserID:  "rider-1",
		Label:   "Church",
		Address: "Bole Medhane Alem",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !addr.Geocoded {
		t.Fatal("expected address to be geocoded")
	}
	if addr.Lat != 8.9936 || addr.Lng != 38.7866 || addr.PlaceID != "place-123" {
		t.Errorf("unexpected geocode data %+v", addr)
	}
}

func TestSaveAddress_DegradesToPlainTextOnGeocodeFailure(t *testing.T) {
	t.Parallel()

	addressRepo := NewMockAddressRepository()
	geocoder := NewMockGeocoder()
	geocoder.SearchError = geocode.ErrUnavailable
	svc := service.NewAddressService(addressRepo, geocoder, nil)

	addr, err := svc.SaveAddress(context.Background(), service.SaveAddressRequest{
		UserID:  "rider-1",
		Label:   "Home",
		Address: "Gerji, Addis Ababa",
	})
	if err != nil {
		t.Fatalf("a geocode outage must not fail the save: %v", err)
	}

	if addr.Geocoded {
		t.Error("address must not be marked geocoded after a failed lookup")
	}
	if addr.Address != "Gerji, Addis Ababa" {
		t.Errorf("plain text address must survive, got %q", addr.Address)
	}
}

func TestSaveAddress_RejectsBlankFields(t *testing.T) {
	t.Parallel()

	svc := service.NewAddressService(NewMockAddressRepository(), nil, nil)
	ctx := context.Background()

	_, err := svc.SaveAddress(ctx, service.SaveAddressRequest{UserID: "rider-1", Label: " ", Address: "Bole"})
	if !errors.Is(err, service.ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress for blank label, got %v", err)
	}
	_, err = svc.SaveAddress(ctx, service.SaveAddressRequest{UserID: "rider-1", Label: "Home", Address: ""})
	if !errors.Is(err, service.ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress for blank address, got %v", err)
	}
}

func TestDeleteAddress_ScopedToOwner(t *testing.T) {
	t.Parallel()

	addressRepo := NewMockAddressRepository()
	svc := service.NewAddressService(addressRepo, nil, nil)
	ctx := context.Background()

	addr, err := svc.SaveAddress(ctx, service.SaveAddressRequest{
		UserID:  "rider-1",
		Label:   "Home",
		Address: "Gerji",
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Another rider cannot delete it.
	if err := svc.DeleteAddress(ctx, addr.ID, "rider-2"); err == nil {
		t.Error("expected deletion by a non-owner to fail")
	}

	if err := svc.DeleteAddress(ctx, addr.ID, "rider-1"); err != nil {
		t.Errorf("owner deletion failed: %v", err)
	}
	remaining, _ := svc.ListAddresses(ctx, "rider-1")
	if len(remaining) != 0 {
		t.Errorf("expected no addresses left, got %d", len(remaining))
	}
}
