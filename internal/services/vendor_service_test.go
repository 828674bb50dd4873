package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/models"
	"tta-backend/internal/repositories"
)

func newTestVendorService() (*VendorService, *REPService) {
	repStore := repositories.NewMemoryREPStore()
	repService := NewREPService(repStore)
	return NewVendorService(repositories.NewMemoryVendorStore(), repStore), repService
}

func validVendorRequest(name string) *models.CreateVendorRequest {
	return &models.CreateVendorRequest{
		Name:          name,
		Type:          models.VendorTypePrinting,
		PANNumber:     "ABCDE1234F",
		ContactPerson: "Priya Nair",
		ContactPhone:  "9876543210",
		ContactEmail:  "priya@example.com",
	}
}

func TestCreateVendorValidation(t *testing.T) {
	svc, _ := newTestVendorService()
	ctx := context.Background()

	req := validVendorRequest("Print Hub")
	req.ContactEmail = "not-an-email"
	_, err := svc.CreateVendor(ctx, req)
	require.Error(t, err)

	req = validVendorRequest("Print Hub")
	req.Type = models.VendorTypeREP
	_, err = svc.CreateVendor(ctx, req)
	require.Error(t, err)

	vendor, err := svc.CreateVendor(ctx, validVendorRequest("Print Hub"))
	require.NoError(t, err)
	assert.Equal(t, models.VendorStatusPending, vendor.Status)
	assert.Equal(t, models.VendorSourceIndependent, vendor.Source)
}

func TestListVendorsProjectsREPs(t *testing.T) {
	svc, repService := newTestVendorService()
	ctx := context.Background()

	_, err := svc.CreateVendor(ctx, validVendorRequest("Print Hub"))
	require.NoError(t, err)

	repReq := validREPRequest("Sports Academy Mumbai", "Mumbai")
	repReq.MOUStatus = models.MOUStatusSigned
	rep, err := repService.CreateREP(ctx, repReq)
	require.NoError(t, err)

	vendors, err := svc.ListVendors(ctx, nil)
	require.NoError(t, err)
	require.Len(t, vendors, 2)

	var projected *models.Vendor
	for _, v := range vendors {
		if v.IsRepSourced() {
			projected = v
		}
	}
	require.NotNil(t, projected)
	assert.Equal(t, "rep_1", projected.ID)
	assert.Equal(t, rep.ID, projected.RepID)
	assert.Equal(t, models.VendorTypeREP, projected.Type)
	assert.Equal(t, models.VendorStatusVerified, projected.Status)
}

func TestProjectionRegeneratesOnEveryList(t *testing.T) {
	svc, repService := newTestVendorService()
	ctx := context.Background()

	rep, err := repService.CreateREP(ctx, validREPRequest("Sports Academy Mumbai", "Mumbai"))
	require.NoError(t, err)

	vendors, err := svc.ListVendors(ctx, nil)
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, models.VendorStatusPending, vendors[0].Status)

	// Signing the MoU flips the projected status on the next list load.
	update := validREPRequest("Sports Academy Mumbai", "Mumbai")
	update.MOUStatus = models.MOUStatusSigned
	_, err = repService.UpdateREP(ctx, rep.ID, update)
	require.NoError(t, err)

	vendors, err = svc.ListVendors(ctx, nil)
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, models.VendorStatusVerified, vendors[0].Status)
}

func TestRepSourcedVendorsAreReadOnly(t *testing.T) {
	svc, repService := newTestVendorService()
	ctx := context.Background()

	_, err := repService.CreateREP(ctx, validREPRequest("Sports Academy Mumbai", "Mumbai"))
	require.NoError(t, err)

	_, err = svc.UpdateVendor(ctx, "rep_1", validVendorRequest("Renamed"))
	require.Error(t, err)
	_, ok := apperrors.AsValidation(err)
	assert.True(t, ok)

	err = svc.DeleteVendor(ctx, "rep_1")
	require.Error(t, err)

	// The projection is still reachable by id.
	vendor, err := svc.GetVendor(ctx, "rep_1")
	require.NoError(t, err)
	assert.True(t, vendor.IsRepSourced())
}

func TestListVendorsFilters(t *testing.T) {
	svc, repService := newTestVendorService()
	ctx := context.Background()

	_, err := svc.CreateVendor(ctx, validVendorRequest("Print Hub"))
	require.NoError(t, err)
	logistics := validVendorRequest("Move It")
	logistics.Type = models.VendorTypeLogistics
	_, err = svc.CreateVendor(ctx, logistics)
	require.NoError(t, err)
	_, err = repService.CreateREP(ctx, validREPRequest("Sports Academy Mumbai", "Mumbai"))
	require.NoError(t, err)

	byType, err := svc.ListVendors(ctx, &models.VendorListFilter{Type: models.VendorTypeREP})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.True(t, byType[0].IsRepSourced())

	bySearch, err := svc.ListVendors(ctx, &models.VendorListFilter{Search: "print"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Print Hub", bySearch[0].Name)
}

func TestGetVendorUnknownID(t *testing.T) {
	svc, _ := newTestVendorService()

	_, err := svc.GetVendor(context.Background(), "rep_banana")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.GetVendor(context.Background(), "999")
	assert.True(t, apperrors.IsNotFound(err))
}
