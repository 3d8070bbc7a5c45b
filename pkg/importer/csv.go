package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/8agana/photography-mind/pkg/models"
)

// header aliases seen across roster and ShootProof exports
var rosterHeaders = map[string]string{
	"time":        "time",
	"event":       "event",
	"split ice":   "split_ice",
	"split_ice":   "split_ice",
	"skate order": "skate_order",
	"skate_order": "skate_order",
	"skater name": "skater",
	"skater_name": "skater",
	"skater":      "skater",
	"signup":      "signup",
	"sign up":     "signup",
	"sign_up":     "signup",
	"email":       "email",
	"phone":       "phone",
}

var contactHeaders = map[string]string{
	"first name": "first",
	"first_name": "first",
	"first":      "first",
	"last name":  "last",
	"last_name":  "last",
	"last":       "last",
	"email":      "email",
	"phone":      "phone",
}

var orderHeaders = map[string]string{
	"order number":  "order_id",
	"order id":      "order_id",
	"order_id":      "order_id",
	"contact name":  "contact",
	"contact_name":  "contact",
	"contact":       "contact",
	"email":         "email",
	"contact email": "email",
	"gallery":       "shoot",
	"shoot":         "shoot",
	"total":         "amount",
	"amount":        "amount",
	"order total":   "amount",
	"date":          "date",
	"order date":    "date",
}

func indexHeaders(row []string, aliases map[string]string) map[string]int {
	idx := make(map[string]int)
	for i, col := range row {
		key := strings.ToLower(strings.TrimSpace(col))
		if canonical, ok := aliases[key]; ok {
			if _, dup := idx[canonical]; !dup {
				idx[canonical] = i
			}
		}
	}
	return idx
}

func cell(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseRosterCSV reads a roster export into records. The header row is
// matched case-insensitively against the column names the exports use.
func ParseRosterCSV(r io.Reader, competition string) ([]models.RosterRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read roster header: %w", err)
	}
	idx := indexHeaders(header, rosterHeaders)
	if _, ok := idx["skater"]; !ok {
		return nil, fmt.Errorf("roster csv has no skater name column")
	}

	var records []models.RosterRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read roster row: %w", err)
		}

		order := 0
		if raw := cell(row, idx, "skate_order"); raw != "" {
			order, _ = strconv.Atoi(raw)
		}

		records = append(records, models.RosterRecord{
			Competition: competition,
			EventName:   cell(row, idx, "event"),
			Time:        cell(row, idx, "time"),
			SplitIce:    cell(row, idx, "split_ice"),
			SkateOrder:  order,
			SkaterNames: []string{cell(row, idx, "skater")},
			SignUp:      cell(row, idx, "signup"),
			Email:       cell(row, idx, "email"),
			Phone:       cell(row, idx, "phone"),
		})
	}
	return records, nil
}

// ParseContactsCSV reads a ShootProof contacts export.
func ParseContactsCSV(r io.Reader) ([]models.ContactRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read contacts header: %w", err)
	}
	idx := indexHeaders(header, contactHeaders)
	if _, ok := idx["last"]; !ok {
		return nil, fmt.Errorf("contacts csv has no last name column")
	}

	var contacts []models.ContactRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read contacts row: %w", err)
		}

		contacts = append(contacts, models.ContactRecord{
			FirstName: cell(row, idx, "first"),
			LastName:  cell(row, idx, "last"),
			Email:     cell(row, idx, "email"),
			Phone:     cell(row, idx, "phone"),
		})
	}
	return contacts, nil
}

// ParseOrdersCSV reads a ShootProof orders export.
func ParseOrdersCSV(r io.Reader) ([]models.OrderRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read orders header: %w", err)
	}
	idx := indexHeaders(header, orderHeaders)
	if _, ok := idx["order_id"]; !ok {
		return nil, fmt.Errorf("orders csv has no order id column")
	}

	var orders []models.OrderRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read orders row: %w", err)
		}

		amount := 0.0
		if raw := cell(row, idx, "amount"); raw != "" {
			raw = strings.TrimPrefix(raw, "$")
			raw = strings.ReplaceAll(raw, ",", "")
			amount, _ = strconv.ParseFloat(raw, 64)
		}

		orders = append(orders, models.OrderRecord{
			ShootProofOrderID: cell(row, idx, "order_id"),
			ContactName:       cell(row, idx, "contact"),
			ContactEmail:      cell(row, idx, "email"),
			ShootName:         cell(row, idx, "shoot"),
			Amount:            amount,
			OrderDate:         cell(row, idx, "date"),
		})
	}
	return orders, nil
}
