package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRosterCSV(t *testing.T) {
	t.Run("matches aliased headers case-insensitively", func(t *testing.T) {
		input := strings.Join([]string{
			"Time,Event,Split Ice,Skate Order,Skater Name,Sign Up,Email,Phone",
			"9:15 AM,Pairs,Front,3,Amy Yang & Ben He,TRUE,yang@example.com,(555) 123-4567",
			"9:20 AM,Solo,,4,Mary Van Der Berg,,,",
		}, "\n")

		records, err := ParseRosterCSV(strings.NewReader(input), "Cactus Classic 2025")
		require.NoError(t, err)
		require.Len(t, records, 2)

		first := records[0]
		assert.Equal(t, "Cactus Classic 2025", first.Competition)
		assert.Equal(t, "Pairs", first.EventName)
		assert.Equal(t, "9:15 AM", first.Time)
		assert.Equal(t, "Front", first.SplitIce)
		assert.Equal(t, 3, first.SkateOrder)
		assert.Equal(t, []string{"Amy Yang & Ben He"}, first.SkaterNames)
		assert.Equal(t, "TRUE", first.SignUp)
		assert.Equal(t, "yang@example.com", first.Email)
		assert.Equal(t, "(555) 123-4567", first.Phone)

		second := records[1]
		assert.Equal(t, []string{"Mary Van Der Berg"}, second.SkaterNames)
		assert.Equal(t, 4, second.SkateOrder)
		assert.Empty(t, second.SignUp)
	})

	t.Run("tolerates ragged rows and blank skate order", func(t *testing.T) {
		input := strings.Join([]string{
			"skater_name,skate_order",
			"Amy Yang",
			"Ben He,not-a-number",
		}, "\n")

		records, err := ParseRosterCSV(strings.NewReader(input), "Fall Mini 2025")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 0, records[0].SkateOrder)
		assert.Equal(t, 0, records[1].SkateOrder)
	})

	t.Run("rejects csv without a skater column", func(t *testing.T) {
		input := "Time,Event\n9:15 AM,Pairs\n"

		_, err := ParseRosterCSV(strings.NewReader(input), "Cactus Classic 2025")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no skater name column")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ParseRosterCSV(strings.NewReader(""), "Cactus Classic 2025")
		require.Error(t, err)
	})
}

func TestParseContactsCSV(t *testing.T) {
	t.Run("reads a shootproof export", func(t *testing.T) {
		input := strings.Join([]string{
			"First Name,Last Name,Email,Phone",
			"Amy,Yang,YANG@Example.com,555-123-4567",
			",O'Brien,,",
		}, "\n")

		contacts, err := ParseContactsCSV(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, "Amy", contacts[0].FirstName)
		assert.Equal(t, "Yang", contacts[0].LastName)
		assert.Equal(t, "YANG@Example.com", contacts[0].Email)
		assert.Equal(t, "O'Brien", contacts[1].LastName)
		assert.Empty(t, contacts[1].FirstName)
	})

	t.Run("rejects csv without a last name column", func(t *testing.T) {
		input := "First Name,Email\nAmy,yang@example.com\n"

		_, err := ParseContactsCSV(strings.NewReader(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no last name column")
	})
}

func TestParseOrdersCSV(t *testing.T) {
	t.Run("strips currency formatting from amounts", func(t *testing.T) {
		input := strings.Join([]string{
			"Order Number,Contact Name,Contact Email,Gallery,Order Total,Order Date",
			`SP-1001,Amy Yang,yang@example.com,Fall Minis 2025,"$1,234.50",2025-10-02`,
			"SP-1002,Ben He,he@example.com,Fall Minis 2025,89.99,2025-10-03",
		}, "\n")

		orders, err := ParseOrdersCSV(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, orders, 2)

		first := orders[0]
		assert.Equal(t, "SP-1001", first.ShootProofOrderID)
		assert.Equal(t, "Amy Yang", first.ContactName)
		assert.Equal(t, "yang@example.com", first.ContactEmail)
		assert.Equal(t, "Fall Minis 2025", first.ShootName)
		assert.InDelta(t, 1234.50, first.Amount, 0.001)
		assert.Equal(t, "2025-10-02", first.OrderDate)

		assert.InDelta(t, 89.99, orders[1].Amount, 0.001)
	})

	t.Run("defaults amount to zero when missing", func(t *testing.T) {
		input := "order_id,date\nSP-2001,2025-11-01\n"

		orders, err := ParseOrdersCSV(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Zero(t, orders[0].Amount)
	})

	t.Run("rejects csv without an order id column", func(t *testing.T) {
		input := "Contact Name,Total\nAmy Yang,$50.00\n"

		_, err := ParseOrdersCSV(strings.NewReader(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no order id column")
	})
}
