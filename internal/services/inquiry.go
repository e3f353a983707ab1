package services

import (
	"fmt"
	"log"
	"time"

	"github.com/admitflow/admitflow-backend/internal/models"
	"github.com/admitflow/admitflow-backend/internal/sheets"
	"github.com/admitflow/admitflow-backend/internal/storage"
)

// InquiryService is the one create-inquiry path shared by every intake
// channel: web form, paper upload and the WhatsApp bot all end up here.
type InquiryService struct {
	store     storage.Store
	sheets    sheets.Store
	allocator *IDAllocator
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(store storage.Store, sheetStore sheets.Store) *InquiryService {
	return &InquiryService{
		store:     store,
		sheets:    sheetStore,
		allocator: NewIDAllocator(sheetStore, store),
	}
}

// Create validates the input, allocates the next inquiry id, appends the
// row to both sheet tabs and mirrors it into the database
func (s *InquiryService) Create(input *models.InquiryInput) (*models.Inquiry, error) {
	if input.StudentName == "" || input.ParentName == "" || input.Phone == "" {
		return nil, fmt.Errorf("student name, parent name and phone are required")
	}

	inquiryID, err := s.allocator.AllocateNextID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate inquiry id: %w", err)
	}

	inquiry := &models.Inquiry{
		InquiryID:         inquiryID,
		StudentName:       input.StudentName,
		ParentName:        input.ParentName,
		Phone:             input.Phone,
		Class:             input.Class,
		School:            input.School,
		Board:             input.Board,
		AccommodationPref: input.AccommodationPref,
		CurriculumPref:    input.CurriculumPref,
		Notes:             input.Notes,
		Source:            input.Source,
		Status:            models.StatusNew,
		InquiryDate:       time.Now(),
	}

	// Sheet first: it is the record counselors look at. The database
	// mirror catches up via reconciliation if the second write fails.
	if err := s.sheets.AppendInquiry(inquiry); err != nil {
		return nil, fmt.Errorf("failed to write inquiry to sheet: %w", err)
	}

	if _, err := s.store.CreateInquiry(inquiry); err != nil {
		log.Printf("⚠️  Inquiry %s written to sheet but not to database: %v", inquiryID, err)
		return nil, fmt.Errorf("failed to save inquiry: %w", err)
	}

	log.Printf("✅ Inquiry %s created (%s, %s)", inquiryID, inquiry.StudentName, inquiry.Source)
	return inquiry, nil
}

// UpdateStatus moves an inquiry to a new status in both stores. The
// Working sheet is written first: reconciliation treats the sheet as
// authoritative for status, so a database-only update would be
// reverted on the next pass.
func (s *InquiryService) UpdateStatus(inquiryID, status string) error {
	rows, err := s.sheets.ReadRows()
	if err != nil {
		return fmt.Errorf("failed to read working tab: %w", err)
	}

	rowNumber := 0
	for _, row := range rows {
		if row.InquiryID == inquiryID {
			rowNumber = row.RowNumber
			break
		}
	}

	if rowNumber == 0 {
		// No sheet row to write through to. Reconciliation reports
		// these records as db-only and leaves them alone.
		log.Printf("⚠️  Inquiry %s has no working-tab row, status updated in database only", inquiryID)
	} else if err := s.sheets.UpdateStatus(rowNumber, status); err != nil {
		return fmt.Errorf("failed to update status on sheet: %w", err)
	}

	if err := s.store.UpdateInquiryStatus(inquiryID, status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Printf("✅ Inquiry %s moved to %s", inquiryID, status)
	return nil
}
