package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"

	"spesen/internal/domain"
	"spesen/internal/service"
	"spesen/mocks"
)

func newExportService() (service.ExportService, *mocks.MockTravelRepo, *mocks.MockReceiptRepo) {
	travelRepo := new(mocks.MockTravelRepo)
	receiptRepo := new(mocks.MockReceiptRepo)
	svc := service.NewExportService(travelRepo, receiptRepo)
	return svc, travelRepo, receiptRepo
}

func exportFixtures(travelID uuid.UUID) ([]domain.CategoryTotal, []domain.Receipt) {
	hotelAmount := decimal.NewFromFloat(87.50)
	taxiAmount := decimal.NewFromFloat(23.40)
	hotel := "Hotel Zur Post"
	taxi := "Taxi Müller"

	totals := []domain.CategoryTotal{
		{Category: domain.CategoryLodging, Count: 1, Total: decimal.NewFromFloat(87.50), VatTotal: decimal.NewFromFloat(14.01)},
		{Category: domain.CategoryTransport, Count: 1, Total: decimal.NewFromFloat(23.40), VatTotal: decimal.NewFromFloat(1.53)},
	}
	receipts := []domain.Receipt{
		{
			ID:               uuid.New(),
			TravelID:         travelID,
			OriginalFilename: "hotel.pdf",
			Amount:           &hotelAmount,
			Merchant:         &hotel,
			Category:         domain.CategoryLodging,
			ParsingStatus:    domain.ParsingStatusSuccess,
			ParsingConf:      100,
			Verified:         true,
		},
		{
			ID:               uuid.New(),
			TravelID:         travelID,
			OriginalFilename: "taxi.jpg",
			Amount:           &taxiAmount,
			Merchant:         &taxi,
			Category:         domain.CategoryTransport,
			ParsingStatus:    domain.ParsingStatusPartial,
			ParsingConf:      60,
		},
		{
			ID:               uuid.New(),
			TravelID:         travelID,
			OriginalFilename: "blurry.png",
			Category:         domain.CategoryOther,
			ParsingStatus:    domain.ParsingStatusManual,
			ParsingConf:      10,
		},
	}
	return totals, receipts
}

func TestExportService_Summary_Aggregates(t *testing.T) {
	svc, travelRepo, receiptRepo := newExportService()
	travelID := uuid.New()
	totals, receipts := exportFixtures(travelID)

	travelRepo.On("GetByID", mock.Anything, travelID).Return(testTravel(travelID), nil)
	receiptRepo.On("SummarizeByCategory", mock.Anything, travelID).Return(totals, nil)
	receiptRepo.On("ListByTravel", mock.Anything, travelID).Return(receipts, nil)

	summary, err := svc.Summary(context.Background(), travelID)

	assert.NoError(t, err)
	assert.Equal(t, "Messe Berlin 2024", summary.Travel.Title)
	assert.True(t, summary.GrandTotal.Equal(decimal.NewFromFloat(110.90)))
	assert.True(t, summary.VatTotal.Equal(decimal.NewFromFloat(15.54)))
	assert.Equal(t, 3, summary.ReceiptCount)
	// One receipt needs manual entry.
	assert.Equal(t, 1, summary.ManualCount)
	// The partial and the manual receipts are unverified below full confidence.
	assert.Equal(t, 2, summary.UnverifiedLow)
}

func TestExportService_ExportCSV(t *testing.T) {
	svc, travelRepo, receiptRepo := newExportService()
	travelID := uuid.New()
	_, receipts := exportFixtures(travelID)

	travelRepo.On("GetByID", mock.Anything, travelID).Return(testTravel(travelID), nil)
	receiptRepo.On("ListByTravel", mock.Anything, travelID).Return(receipts, nil)

	data, filename, err := svc.ExportCSV(context.Background(), travelID)

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "Messe_Berlin_2024_"))
	assert.True(t, strings.HasSuffix(filename, ".csv"))
	// Excel needs the UTF-8 BOM to pick the right encoding.
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	r := csv.NewReader(bytes.NewReader(data[3:]))
	rows, err := r.ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 4) // header + three receipts
	assert.Equal(t, "Filename", rows[0][0])
	assert.Len(t, rows[0], 15)
	assert.Equal(t, "Hotel Zur Post", rows[1][1])
	assert.Equal(t, "87.50", rows[1][4])
}

func TestExportService_ExportXLSX(t *testing.T) {
	svc, travelRepo, receiptRepo := newExportService()
	travelID := uuid.New()
	totals, receipts := exportFixtures(travelID)

	travelRepo.On("GetByID", mock.Anything, travelID).Return(testTravel(travelID), nil)
	receiptRepo.On("SummarizeByCategory", mock.Anything, travelID).Return(totals, nil)
	receiptRepo.On("ListByTravel", mock.Anything, travelID).Return(receipts, nil)

	data, filename, err := svc.ExportXLSX(context.Background(), travelID)

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "Messe_Berlin_2024_"))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()
	assert.ElementsMatch(t, []string{"Summary", "Receipts"}, f.GetSheetList())
}

func TestExportService_ExportCSV_TravelNotFound(t *testing.T) {
	svc, travelRepo, _ := newExportService()
	travelID := uuid.New()

	travelRepo.On("GetByID", mock.Anything, travelID).Return(nil, domain.ErrTravelNotFound)

	_, _, err := svc.ExportCSV(context.Background(), travelID)

	assert.ErrorIs(t, err, domain.ErrTravelNotFound)
}
