package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"helpme/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Snapshot carries the collections the workbook is built from.
type Snapshot struct {
	Users     []models.User
	Spots     []models.ParkingSpot
	Requests  []models.ServiceRequest
	Rides     []models.CarpoolRide
	LostItems []models.LostItem
	SosAlerts []models.SosAlert
}

// Exporter writes admin xlsx reports, one sheet per collection.
type Exporter struct {
	path   string
	logger *zerolog.Logger
}

func NewExporter(path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{path: path, logger: logger}
}

// Export builds a workbook from the snapshot and saves it under the export
// directory, returning the file path.
func (e *Exporter) Export(snap Snapshot) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, "Users", []string{"Username", "Role", "Phone"}, len(snap.Users), func(i int) []interface{} {
		u := snap.Users[i]
		return []interface{}{u.Username, u.Role, u.Phone}
	}); err != nil {
		return "", err
	}

	if err := writeSheet(f, "Parking", []string{"ID", "Owner", "Region", "Address", "Duration (h)", "Taken", "Requester", "Created"}, len(snap.Spots), func(i int) []interface{} {
		s := snap.Spots[i]
		return []interface{}{s.ID, s.Owner, s.Region, s.Address, s.DurationHours, s.IsTaken, s.Requester, formatMillis(s.CreatedAt)}
	}); err != nil {
		return "", err
	}

	if err := writeSheet(f, "Services", []string{"ID", "Requester", "Service", "Suggested", "Final", "Status", "Provider", "Provider Phone"}, len(snap.Requests), func(i int) []interface{} {
		r := snap.Requests[i]
		return []interface{}{r.ID, r.Requester, r.ServiceName, r.SuggestedPrice, r.FinalPrice, r.Status, r.Provider, r.ProviderPhone}
	}); err != nil {
		return "", err
	}

	if err := writeSheet(f, "Carpool", []string{"ID", "Driver", "From", "To", "Time", "Seats", "Price"}, len(snap.Rides), func(i int) []interface{} {
		r := snap.Rides[i]
		return []interface{}{r.ID, r.Driver, r.From, r.To, r.Time, r.Seats, r.Price}
	}); err != nil {
		return "", err
	}

	if err := writeSheet(f, "LostFound", []string{"ID", "Reporter", "Type", "Item", "Location", "Date", "Contact"}, len(snap.LostItems), func(i int) []interface{} {
		it := snap.LostItems[i]
		return []interface{}{it.ID, it.Reporter, it.Type, it.ItemName, it.Location, it.Date, it.Contact}
	}); err != nil {
		return "", err
	}

	if err := writeSheet(f, "SOS", []string{"ID", "Requester", "Issue", "Location", "Status", "Raised"}, len(snap.SosAlerts), func(i int) []interface{} {
		a := snap.SosAlerts[i]
		return []interface{}{a.ID, a.Requester, a.IssueType, a.Location, a.Status, formatMillis(a.Timestamp)}
	}); err != nil {
		return "", err
	}

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}

func writeSheet(f *excelize.File, name string, header []string, count int, rowAt func(int) []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("error creating sheet %s: %w", name, err)
	}

	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for col, h := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(name, cell, h)
		_ = f.SetCellStyle(name, cell, cell, style)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	_ = f.SetColWidth(name, "A", lastCol, 20)

	for i := 0; i < count; i++ {
		for col, v := range rowAt(i) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(name, cell, v)
		}
	}
	return nil
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04:05")
}
