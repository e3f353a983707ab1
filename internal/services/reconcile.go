package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/admitflow/admitflow-backend/internal/models"
	"github.com/admitflow/admitflow-backend/internal/sheets"
	"github.com/admitflow/admitflow-backend/internal/storage"
)

// ReconcileSummary reports what one reconciliation run did
type ReconcileSummary struct {
	RunID      string `json:"run_id"`
	Scanned    int    `json:"scanned"`
	Inserted   int    `json:"inserted"`
	Updated    int    `json:"updated"`
	Skipped    int    `json:"skipped"`
	DBOnly     int    `json:"db_only"`
	FailedRows int    `json:"failed_rows"`
}

// ReconcileService syncs the Working sheet into the database. The sheet
// is the source of truth; counselors edit statuses there and this run
// folds those edits back into the mirror. Rows are matched on the
// natural key phone + student name, never on position.
type ReconcileService struct {
	store  storage.Store
	sheets sheets.Store
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(store storage.Store, sheetStore sheets.Store) *ReconcileService {
	return &ReconcileService{
		store:  store,
		sheets: sheetStore,
	}
}

// Run performs one idempotent reconciliation pass:
//   - sheet row missing from the database: inserted
//   - row present in both: the sheet's status wins
//   - database record with no sheet row: left alone, counted
func (r *ReconcileService) Run() (*ReconcileSummary, error) {
	summary := &ReconcileSummary{RunID: uuid.NewString()}

	rows, err := r.sheets.ReadRows()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet for reconciliation: %w", err)
	}
	summary.Scanned = len(rows)

	seenKeys := make(map[string]bool)
	for _, row := range rows {
		if row.Phone == "" || row.StudentName == "" {
			// No natural key, nothing safe to match on
			summary.Skipped++
			continue
		}
		seenKeys[naturalKey(row.Phone, row.StudentName)] = true

		existing, err := r.store.FindInquiryByNaturalKey(row.Phone, row.StudentName)
		if err != nil {
			// Lookup failure is not a missing record; inserting here
			// would duplicate the row once the database recovers
			log.Printf("❌ Reconcile: lookup failed for %s (%s): %v", row.InquiryID, row.StudentName, err)
			summary.FailedRows++
			continue
		}
		if existing == nil {
			// Not in the database yet: backfill from the sheet
			inquiry := rowToInquiry(row)
			if _, err := r.store.CreateInquiry(inquiry); err != nil {
				log.Printf("❌ Reconcile: failed to insert %s (%s): %v", row.InquiryID, row.StudentName, err)
				summary.FailedRows++
				continue
			}
			summary.Inserted++
			continue
		}

		// Present in both: counselor edits to status flow sheet -> db
		if row.Status != "" && models.ValidStatus(row.Status) && row.Status != existing.Status {
			if err := r.store.UpdateInquiryStatus(existing.InquiryID, row.Status); err != nil {
				log.Printf("❌ Reconcile: failed to update status of %s: %v", existing.InquiryID, err)
				summary.FailedRows++
				continue
			}
			summary.Updated++
		} else {
			summary.Skipped++
		}
	}

	// Records only the database knows about are reported, not deleted:
	// a deleted sheet row may be an accidental counselor edit
	all, err := r.store.GetAllInquiries()
	if err != nil {
		return nil, fmt.Errorf("failed to list database inquiries: %w", err)
	}
	for _, inquiry := range all {
		if !seenKeys[naturalKey(inquiry.Phone, inquiry.StudentName)] {
			summary.DBOnly++
		}
	}

	log.Printf("🔄 Reconcile %s: scanned=%d inserted=%d updated=%d skipped=%d db_only=%d failed=%d",
		summary.RunID, summary.Scanned, summary.Inserted, summary.Updated,
		summary.Skipped, summary.DBOnly, summary.FailedRows)

	return summary, nil
}

func naturalKey(phone, studentName string) string {
	return phone + "|" + strings.ToLower(studentName)
}

// rowToInquiry maps one sheet row onto a database record
func rowToInquiry(row sheets.Row) *models.Inquiry {
	status := row.Status
	if !models.ValidStatus(status) {
		status = models.StatusNew
	}
	source := row.Source
	if source == "" {
		source = models.SourceWebForm
	}

	return &models.Inquiry{
		InquiryID:         row.InquiryID,
		StudentName:       row.StudentName,
		ParentName:        row.ParentName,
		Phone:             row.Phone,
		Class:             row.Class,
		School:            row.School,
		Board:             row.Board,
		AccommodationPref: row.Accommodation,
		CurriculumPref:    row.Curriculum,
		Notes:             row.Notes,
		Source:            source,
		Status:            status,
		InquiryDate:       sheets.ParseInquiryDate(row.InquiryDate),
	}
}
