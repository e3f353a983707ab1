package services

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"github.com/admitflow/admitflow-backend/internal/sheets"
	"github.com/admitflow/admitflow-backend/internal/storage"
)

var inquiryIDPattern = regexp.MustCompile(`^S-(\d+)$`)

// IDAllocator hands out the next sequential inquiry id (S-<n>).
// The sheet is scanned for the running maximum and the candidate is
// checked against the database unique index, so an id is never reused
// even when a sheet row has been deleted after it reached the database.
//
// The allocator only reads; the caller writes the id. There is no
// reservation, so two racing allocations can pick the same candidate.
// That window is accepted: intake volume is a handful of inquiries per
// day and a collision fails loudly on the database unique index.
type IDAllocator struct {
	sheets sheets.Store
	store  storage.Store
}

// NewIDAllocator creates a new inquiry id allocator
func NewIDAllocator(sheetStore sheets.Store, store storage.Store) *IDAllocator {
	return &IDAllocator{
		sheets: sheetStore,
		store:  store,
	}
}

// AllocateNextID returns an inquiry id unused in both the sheet and the
// database at the time of the call. Rows whose id does not look like
// S-<digits> are ignored (legacy and hand-edited rows exist). A numeric
// suffix too large to parse falls back to a wall-clock id, trading
// sequentiality for uniqueness.
func (a *IDAllocator) AllocateNextID() (string, error) {
	ids, err := a.sheets.ReadInquiryIDs()
	if err != nil {
		return "", fmt.Errorf("failed to read ids from sheet: %w", err)
	}

	maxSheet := 0
	for _, id := range ids {
		matches := inquiryIDPattern.FindStringSubmatch(id)
		if matches == nil {
			continue
		}
		n, err := strconv.Atoi(matches[1])
		if err != nil {
			// Matched digits that overflow int: corrupt data, give up
			// on the sequence and mint a time-derived id instead
			log.Printf("⚠️  Unparseable inquiry id %q in sheet, falling back to timestamp id", id)
			return fmt.Sprintf("S-%d", time.Now().UnixNano()), nil
		}
		if n > maxSheet {
			maxSheet = n
		}
	}

	// Walk forward until the database has no record of the candidate.
	// The stores drift when a sheet row is deleted after sync.
	next := maxSheet + 1
	for {
		candidate := fmt.Sprintf("S-%d", next)
		exists, err := a.store.InquiryIDExists(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check id %s against database: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		log.Printf("⚠️  Inquiry id %s already in database, trying next", candidate)
		next++
	}
}
