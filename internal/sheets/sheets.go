// Package sheets talks to the Google Sheets workbook that counselors
// treat as the primary inquiry record. Two tabs are maintained: the SOR
// tab is append-only, the Working tab is the one counselors edit.
package sheets

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/admitflow/admitflow-backend/internal/models"
)

// Row is one inquiry row read back from the Working tab.
type Row struct {
	// 1-based row number in the sheet, header excluded at read time
	RowNumber int

	InquiryID     string
	StudentName   string
	ParentName    string
	Phone         string
	Class         string
	School        string
	Board         string
	Accommodation string
	Curriculum    string
	Notes         string
	Source        string
	Status        string
	InquiryDate   string
}

// Store defines the spreadsheet operations the rest of the system needs
type Store interface {
	// ReadInquiryIDs returns every value in the SOR id column, raw
	ReadInquiryIDs() ([]string, error)
	// AppendInquiry appends the inquiry row to both tabs
	AppendInquiry(inquiry *models.Inquiry) error
	// ReadRows returns all data rows from the Working tab
	ReadRows() ([]Row, error)
	// UpdateStatus overwrites the status cell of one Working-tab row
	UpdateStatus(rowNumber int, status string) error
}

// Client implements Store against the Google Sheets API
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sorTab        string
	workingTab    string
}

// NewClient creates a Sheets client from environment configuration.
// Credentials come from GOOGLE_APPLICATION_CREDENTIALS (service account JSON)
// or application default credentials on Cloud Run.
func NewClient(ctx context.Context) (*Client, error) {
	spreadsheetID := os.Getenv("SHEETS_SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("missing SHEETS_SPREADSHEET_ID in environment variables")
	}

	sorTab := os.Getenv("SHEETS_SOR_TAB")
	if sorTab == "" {
		sorTab = "SOR"
	}
	workingTab := os.Getenv("SHEETS_WORKING_TAB")
	if workingTab == "" {
		workingTab = "Working"
	}

	var opts []option.ClientOption
	if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sorTab:        sorTab,
		workingTab:    workingTab,
	}, nil
}

// ReadInquiryIDs reads the full id column of the SOR tab (header skipped)
func (c *Client) ReadInquiryIDs() ([]string, error) {
	readRange := fmt.Sprintf("%s!A2:A", c.sorTab)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read inquiry ids: %w", err)
	}

	var ids []string
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		ids = append(ids, fmt.Sprintf("%v", row[0]))
	}
	return ids, nil
}

// AppendInquiry appends one inquiry row to the SOR tab and the Working tab
func (c *Client) AppendInquiry(inquiry *models.Inquiry) error {
	row := []interface{}{
		inquiry.InquiryID,
		inquiry.StudentName,
		inquiry.ParentName,
		inquiry.Phone,
		inquiry.Class,
		inquiry.School,
		inquiry.Board,
		inquiry.AccommodationPref,
		inquiry.CurriculumPref,
		inquiry.Notes,
		inquiry.Source,
		inquiry.Status,
		inquiry.InquiryDate.Format("2006-01-02 15:04:05"),
	}
	body := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	for _, tab := range []string{c.sorTab, c.workingTab} {
		_, err := c.svc.Spreadsheets.Values.
			Append(c.spreadsheetID, fmt.Sprintf("%s!A:M", tab), body).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Do()
		if err != nil {
			return fmt.Errorf("failed to append inquiry to %s tab: %w", tab, err)
		}
	}

	log.Printf("📄 Inquiry %s appended to sheets", inquiry.InquiryID)
	return nil
}

// ReadRows reads every data row from the Working tab
func (c *Client) ReadRows() ([]Row, error) {
	readRange := fmt.Sprintf("%s!A2:M", c.workingTab)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read working tab: %w", err)
	}

	var rows []Row
	for i, raw := range resp.Values {
		row := Row{RowNumber: i + 2} // data starts at row 2
		cells := make([]string, 13)
		for j := 0; j < len(raw) && j < 13; j++ {
			cells[j] = fmt.Sprintf("%v", raw[j])
		}
		row.InquiryID = cells[0]
		row.StudentName = cells[1]
		row.ParentName = cells[2]
		row.Phone = cells[3]
		row.Class = cells[4]
		row.School = cells[5]
		row.Board = cells[6]
		row.Accommodation = cells[7]
		row.Curriculum = cells[8]
		row.Notes = cells[9]
		row.Source = cells[10]
		row.Status = cells[11]
		row.InquiryDate = cells[12]
		rows = append(rows, row)
	}
	return rows, nil
}

// UpdateStatus overwrites the status cell (column L) of a Working-tab row
func (c *Client) UpdateStatus(rowNumber int, status string) error {
	cell := fmt.Sprintf("%s!L%d", c.workingTab, rowNumber)
	body := &sheetsapi.ValueRange{Values: [][]interface{}{{status}}}

	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, cell, body).
		ValueInputOption("USER_ENTERED").
		Do()
	if err != nil {
		return fmt.Errorf("failed to update status at row %d: %w", rowNumber, err)
	}
	return nil
}

// ParseInquiryDate parses the date format written by AppendInquiry,
// falling back to now for rows with hand-edited dates
func ParseInquiryDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}
