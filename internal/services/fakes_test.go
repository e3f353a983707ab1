package services

import (
	"fmt"

	"github.com/admitflow/admitflow-backend/internal/models"
	"github.com/admitflow/admitflow-backend/internal/sheets"
)

// fakeSheetStore is an in-memory stand-in for the Google Sheets client
type fakeSheetStore struct {
	ids           []string
	rows          []sheets.Row
	appended      []*models.Inquiry
	readErr       error
	appendErr     error
	statusErr     error
	statusUpdates map[int]string
}

func newFakeSheetStore(ids ...string) *fakeSheetStore {
	return &fakeSheetStore{
		ids:           ids,
		statusUpdates: make(map[int]string),
	}
}

func (f *fakeSheetStore) ReadInquiryIDs() ([]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.ids, nil
}

func (f *fakeSheetStore) AppendInquiry(inquiry *models.Inquiry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, inquiry)
	f.ids = append(f.ids, inquiry.InquiryID)
	return nil
}

func (f *fakeSheetStore) ReadRows() ([]sheets.Row, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.rows, nil
}

func (f *fakeSheetStore) UpdateStatus(rowNumber int, status string) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statusUpdates[rowNumber] = status
	for i := range f.rows {
		if f.rows[i].RowNumber == rowNumber {
			f.rows[i].Status = status
		}
	}
	return nil
}

// fakeSender records outbound WhatsApp messages
type fakeSender struct {
	sent    []string // recipient phones in send order
	failFor map[string]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: make(map[string]bool)}
}

func (f *fakeSender) SendWhatsAppMessage(to string, message string) error {
	if f.failFor[to] {
		return fmt.Errorf("delivery failed")
	}
	f.sent = append(f.sent, to)
	return nil
}
