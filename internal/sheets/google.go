package sheets

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/tracksheet/internal/shared"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetURLPrefix = "https://docs.google.com/spreadsheets/d/"

// GoogleWorkbook implements [Workbook] against the Sheets v4 API.
type GoogleWorkbook struct {
	svc           *sheets.Service
	spreadsheetID string
}

// CredentialsOption reads a service account key file and returns it as a client option
// scoped for spreadsheet edits.
func CredentialsOption(ctx context.Context, path string) (option.ClientOption, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read Google credentials %s: %v", shared.ErrInvalidConfig, path, err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse Google credentials %s: %v", shared.ErrInvalidConfig, path, err)
	}

	return option.WithCredentials(creds), nil
}

// NewGoogleWorkbook opens the spreadsheet with the given ID. opts must carry credentials
// (see [CredentialsOption]) or an authorized HTTP client.
func NewGoogleWorkbook(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*GoogleWorkbook, error) {
	if spreadsheetID == "" {
		return nil, &shared.ConfigError{Name: shared.EnvSpreadsheetID}
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Sheets client: %v", shared.ErrServiceUnavailable, err)
	}

	return &GoogleWorkbook{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// URL returns the spreadsheet link.
func (g *GoogleWorkbook) URL() string {
	return spreadsheetURLPrefix + g.spreadsheetID
}

// Find scans the spreadsheet's tab properties for an exact title match.
func (g *GoogleWorkbook) Find(ctx context.Context, title string) (Worksheet, bool, error) {
	resp, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return Worksheet{}, false, fmt.Errorf("%w: failed to open spreadsheet: %v", shared.ErrAPIRequest, err)
	}

	for _, s := range resp.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return toWorksheet(s.Properties), true, nil
		}
	}
	return Worksheet{}, false, nil
}

// Delete removes the worksheet by ID.
func (g *GoogleWorkbook) Delete(ctx context.Context, ws Worksheet) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			// sheetId 0 is valid and would otherwise be dropped as empty
			DeleteSheet: &sheets.DeleteSheetRequest{SheetId: ws.ID, ForceSendFields: []string{"SheetId"}},
		}},
	}

	if _, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: failed to delete worksheet %q: %v", shared.ErrAPIRequest, ws.Title, err)
	}
	return nil
}

// Add creates a worksheet sized rows x columns.
func (g *GoogleWorkbook) Add(ctx context.Context, title string, rows, columns int64) (Worksheet, error) {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    rows,
						ColumnCount: columns,
					},
				},
			},
		}},
	}

	resp, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return Worksheet{}, fmt.Errorf("%w: failed to add worksheet %q: %v", shared.ErrAPIRequest, title, err)
	}

	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return Worksheet{}, fmt.Errorf("%w: addSheet reply missing properties", shared.ErrAPIRequest)
	}
	return toWorksheet(resp.Replies[0].AddSheet.Properties), nil
}

// Write stores values from A1 with RAW input so nothing is reinterpreted as a formula or date.
func (g *GoogleWorkbook) Write(ctx context.Context, ws Worksheet, values [][]any) error {
	vr := &sheets.ValueRange{Values: values}
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, quoteTitle(ws.Title)+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: failed to write worksheet %q: %v", shared.ErrAPIRequest, ws.Title, err)
	}
	return nil
}

// Read returns the worksheet's values as strings.
func (g *GoogleWorkbook) Read(ctx context.Context, title string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, quoteTitle(title)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read worksheet %q: %v", shared.ErrAPIRequest, title, err)
	}

	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = fmt.Sprint(cell)
		}
	}
	return out, nil
}

func toWorksheet(p *sheets.SheetProperties) Worksheet {
	ws := Worksheet{ID: p.SheetId, Title: p.Title}
	if p.GridProperties != nil {
		ws.Rows = p.GridProperties.RowCount
		ws.Columns = p.GridProperties.ColumnCount
	}
	return ws
}
