package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/logging"
	"github.com/camden-git/congoaddressmapper/models"
)

// AddressPage is one page of a filtered listing. Total ignores limit and offset.
type AddressPage struct {
	Addresses []models.Address `json:"addresses"`
	Total     int64            `json:"total"`
}

// AddressUpdate is a partial update. Nil fields are left untouched.
// A JSON field holding the literal null clears the column.
type AddressUpdate struct {
	FullAddress        *string                    `json:"fullAddress,omitempty"`
	Zone               *string                    `json:"zone,omitempty"`
	Street             *string                    `json:"street,omitempty"`
	DoorNumber         *string                    `json:"doorNumber,omitempty"`
	Quartier           *string                    `json:"quartier,omitempty"`
	Commune            *string                    `json:"commune,omitempty"`
	Latitude           *string                    `json:"latitude,omitempty"`
	Longitude          *string                    `json:"longitude,omitempty"`
	EmergencyContacts  json.RawMessage            `json:"emergencyContacts,omitempty"`
	ServiceIcons       json.RawMessage            `json:"serviceIcons,omitempty"`
	VerificationStatus *models.VerificationStatus `json:"verificationStatus,omitempty"`
	// recorded on every change log entry the update produces
	Reason *string `json:"reason,omitempty"`
}

type AddressRepository struct {
	store    *database.Provider
	regions  *RegionRepository
	sessions *SurveyRepository
}

func NewAddressRepository(store *database.Provider, regions *RegionRepository, sessions *SurveyRepository) *AddressRepository {
	return &AddressRepository{store: store, regions: regions, sessions: sessions}
}

// List runs the records and count statements for f concurrently.
// An unavailable store yields an empty page.
func (r *AddressRepository) List(ctx context.Context, f database.AddressFilter) (AddressPage, error) {
	page := AddressPage{Addresses: []models.Address{}}
	db, err := r.store.DB(ctx)
	if err != nil {
		return degradeRead(ctx, page, err, "list addresses")
	}

	q := database.BuildAddressQuery(f)
	recordsSQL, recordsArgs, err := q.Records.ToSql()
	if err != nil {
		return AddressPage{}, fmt.Errorf("failed to build address records query: %w", err)
	}
	countSQL, countArgs, err := q.Count.ToSql()
	if err != nil {
		return AddressPage{}, fmt.Errorf("failed to build address count query: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := db.WithContext(gctx).Raw(recordsSQL, recordsArgs...).Scan(&page.Addresses).Error; err != nil {
			return fmt.Errorf("failed to query addresses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := db.WithContext(gctx).Raw(countSQL, countArgs...).Scan(&page.Total).Error; err != nil {
			return fmt.Errorf("failed to count addresses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return AddressPage{}, err
	}

	if page.Addresses == nil {
		page.Addresses = []models.Address{}
	}
	return page, nil
}

func (r *AddressRepository) GetByID(ctx context.Context, id string) (*models.Address, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	return getAddress(db, id)
}

func getAddress(db *gorm.DB, id string) (*models.Address, error) {
	var address models.Address
	if err := db.Where("id = ?", id).First(&address).Error; err != nil {
		return nil, notFound(err, "address", id)
	}
	return &address, nil
}

// Create inserts address on behalf of caller, then refreshes the province's
// mapping progress and the caller's active survey session counter. Those two
// follow-ups run after the insert has committed; their failures are logged.
func (r *AddressRepository) Create(ctx context.Context, caller auth.Caller, address *models.Address) (*models.Address, error) {
	if err := prepareNewAddress(caller, address); err != nil {
		return nil, err
	}

	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	if address.ProvinceID != nil {
		if err := exists(db, &models.Province{}, *address.ProvinceID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, invalid("provinceId", "unknown province")
			}
			return nil, fmt.Errorf("failed to check province %s: %w", *address.ProvinceID, err)
		}
	}
	if err := db.Create(address).Error; err != nil {
		return nil, createErr(err, "address", address.ID)
	}

	ctx = logging.WithAttrs(ctx, slog.String("address_id", address.ID))
	if address.ProvinceID != nil {
		if err := r.regions.RecomputeProgress(ctx, *address.ProvinceID); err != nil {
			logging.Error(ctx, "failed to recompute province progress",
				slog.String("province_id", *address.ProvinceID), logging.Err(err))
		}
	}
	if r.sessions != nil && !caller.IsZero() {
		if err := r.sessions.IncrementCollected(ctx, caller.ID); err != nil {
			logging.Error(ctx, "failed to increment survey session counter", logging.Err(err))
		}
	}

	created, err := getAddress(db, address.ID)
	if err != nil {
		return nil, err
	}
	logging.Info(ctx, "address created", slog.String("data_source", string(created.DataSource)))
	return created, nil
}

func prepareNewAddress(caller auth.Caller, a *models.Address) error {
	a.ID = strings.TrimSpace(a.ID)
	if a.ID == "" {
		return invalid("id", "is required")
	}
	if strings.TrimSpace(a.FullAddress) == "" {
		return invalid("fullAddress", "is required")
	}
	if a.ProvinceID != nil {
		id := strings.TrimSpace(*a.ProvinceID)
		if id == "" {
			a.ProvinceID = nil
		} else {
			a.ProvinceID = &id
		}
	}

	if a.VerificationStatus == "" {
		a.VerificationStatus = models.StatusUnverified
	} else if !a.VerificationStatus.IsValid() {
		return invalid("verificationStatus", fmt.Sprintf("unknown status %q", a.VerificationStatus))
	}
	if a.DataSource == "" {
		a.DataSource = models.SourceManualSurvey
	} else if !a.DataSource.IsValid() {
		return invalid("dataSource", fmt.Sprintf("unknown data source %q", a.DataSource))
	}

	score, err := normalizeScore("confidenceScore", a.ConfidenceScore)
	if err != nil {
		return err
	}
	a.ConfidenceScore = score

	if a.Latitude, err = normalizeLatitude(a.Latitude); err != nil {
		return err
	}
	if a.Longitude, err = normalizeLongitude(a.Longitude); err != nil {
		return err
	}
	if len(a.EmergencyContacts) > 0 && !json.Valid(a.EmergencyContacts) {
		return invalid("emergencyContacts", "must be valid JSON")
	}
	if len(a.ServiceIcons) > 0 && !json.Valid(a.ServiceIcons) {
		return invalid("serviceIcons", "must be valid JSON")
	}

	if !caller.IsZero() {
		a.CreatedBy = &caller.ID
	}
	// only Verify sets these
	a.VerifiedBy = nil
	a.VerifiedAt = nil
	return nil
}

type fieldChange struct {
	field  string
	column string
	value  any
	oldVal *string
	newVal *string
}

// Update applies the present fields of upd and appends one change log entry
// per field whose string form changed, all in one transaction.
func (r *AddressRepository) Update(ctx context.Context, caller auth.Caller, id string, upd AddressUpdate) (*models.Address, error) {
	if err := normalizeUpdate(&upd); err != nil {
		return nil, err
	}

	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}

	var updated *models.Address
	err = db.Transaction(func(tx *gorm.DB) error {
		current, err := getAddress(tx, id)
		if err != nil {
			return err
		}

		changes := diffAddress(current, upd)
		if len(changes) == 0 {
			updated = current
			return nil
		}

		values := make(map[string]any, len(changes))
		entries := make([]models.ChangeLogEntry, 0, len(changes))
		now := time.Now().UTC()
		for _, c := range changes {
			values[c.column] = c.value
			entries = append(entries, models.ChangeLogEntry{
				ID:           uuid.NewString(),
				AddressID:    id,
				FieldChanged: c.field,
				OldValue:     c.oldVal,
				NewValue:     c.newVal,
				ChangedBy:    caller.ID,
				ChangedAt:    now,
				Reason:       upd.Reason,
			})
		}

		if err := tx.Model(&models.Address{}).Where("id = ?", id).Updates(values).Error; err != nil {
			return fmt.Errorf("failed to update address %s: %w", id, err)
		}
		if err := tx.Create(&entries).Error; err != nil {
			return fmt.Errorf("failed to write change log for address %s: %w", id, err)
		}

		updated, err = getAddress(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func normalizeUpdate(upd *AddressUpdate) error {
	if upd.FullAddress != nil && strings.TrimSpace(*upd.FullAddress) == "" {
		return invalid("fullAddress", "must not be empty")
	}
	if upd.VerificationStatus != nil && !upd.VerificationStatus.IsValid() {
		return invalid("verificationStatus", fmt.Sprintf("unknown status %q", *upd.VerificationStatus))
	}
	var err error
	if upd.Latitude, err = normalizeLatitude(upd.Latitude); err != nil {
		return err
	}
	if upd.Longitude, err = normalizeLongitude(upd.Longitude); err != nil {
		return err
	}
	if len(upd.EmergencyContacts) > 0 && !json.Valid(upd.EmergencyContacts) {
		return invalid("emergencyContacts", "must be valid JSON")
	}
	if len(upd.ServiceIcons) > 0 && !json.Valid(upd.ServiceIcons) {
		return invalid("serviceIcons", "must be valid JSON")
	}
	return nil
}

func diffAddress(current *models.Address, upd AddressUpdate) []fieldChange {
	var changes []fieldChange

	text := func(field, column string, stored *string, next *string) {
		if next == nil || equalText(stored, next) {
			return
		}
		changes = append(changes, fieldChange{field: field, column: column, value: *next, oldVal: stored, newVal: next})
	}
	jsonField := func(field, column string, stored datatypes.JSON, next json.RawMessage) {
		if next == nil {
			return
		}
		oldVal, newVal := jsonText(stored), jsonText(next)
		if equalText(oldVal, newVal) {
			return
		}
		var value any
		if newVal != nil {
			value = datatypes.JSON(*newVal)
		}
		changes = append(changes, fieldChange{field: field, column: column, value: value, oldVal: oldVal, newVal: newVal})
	}

	full := current.FullAddress
	text("fullAddress", "full_address", &full, upd.FullAddress)
	text("zone", "zone", current.Zone, upd.Zone)
	text("street", "street", current.Street, upd.Street)
	text("doorNumber", "door_number", current.DoorNumber, upd.DoorNumber)
	text("quartier", "quartier", current.Quartier, upd.Quartier)
	text("commune", "commune", current.Commune, upd.Commune)
	text("latitude", "latitude", current.Latitude, upd.Latitude)
	text("longitude", "longitude", current.Longitude, upd.Longitude)
	jsonField("emergencyContacts", "emergency_contacts", current.EmergencyContacts, upd.EmergencyContacts)
	jsonField("serviceIcons", "service_icons", current.ServiceIcons, upd.ServiceIcons)

	if upd.VerificationStatus != nil {
		stored := string(current.VerificationStatus)
		next := string(*upd.VerificationStatus)
		text("verificationStatus", "verification_status", &stored, &next)
	}
	return changes
}

func equalText(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// jsonText renders a JSON document compactly; SQL NULL and JSON null both map to nil.
func jsonText(raw []byte) *string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		s := string(trimmed)
		return &s
	}
	s := buf.String()
	return &s
}

// Verify marks the address verified by caller regardless of its current status.
func (r *AddressRepository) Verify(ctx context.Context, caller auth.Caller, id string) (*models.Address, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}

	var verified *models.Address
	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := getAddress(tx, id); err != nil {
			return err
		}
		err := tx.Model(&models.Address{}).Where("id = ?", id).Updates(map[string]any{
			"verification_status": models.StatusVerified,
			"verified_by":         caller.ID,
			"verified_at":         time.Now().UTC(),
		}).Error
		if err != nil {
			return fmt.Errorf("failed to verify address %s: %w", id, err)
		}
		verified, err = getAddress(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return verified, nil
}

// ListChangeLog returns the audit trail of an address, oldest first.
func (r *AddressRepository) ListChangeLog(ctx context.Context, addressID string) ([]models.ChangeLogEntry, error) {
	entries := []models.ChangeLogEntry{}
	db, err := r.store.DB(ctx)
	if err != nil {
		return degradeRead(ctx, entries, err, "list change log")
	}
	if err := db.Where("address_id = ?", addressID).Order("changed_at ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list change log for address %s: %w", addressID, err)
	}
	return entries, nil
}

