package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeSheet is one worksheet held by [FakeSheets].
type FakeSheet struct {
	ID      int64
	Title   string
	Rows    int64
	Columns int64
	Values  [][]string
}

// FakeSheets is an httptest server implementing spreadsheets.get, spreadsheets.batchUpdate
// (addSheet, deleteSheet) and values.get/update for a single spreadsheet.
//
// Written cells are stored with fmt.Sprint, the way the Sheets UI shows RAW input.
type FakeSheets struct {
	Server        *httptest.Server
	SpreadsheetID string

	mu     sync.Mutex
	sheets []*FakeSheet
	nextID int64
	calls  []string
}

// NewFakeSheets starts a fake holding one empty "Sheet1" (sheetId 0) and registers its shutdown with t.
func NewFakeSheets(t *testing.T, spreadsheetID string) *FakeSheets {
	t.Helper()

	f := &FakeSheets{
		SpreadsheetID: spreadsheetID,
		sheets:        []*FakeSheet{{ID: 0, Title: "Sheet1", Rows: 1000, Columns: 26}},
		nextID:        1000,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v4/spreadsheets/{id}", f.handleGet)
	mux.HandleFunc("POST /v4/spreadsheets/{op}", f.handleBatchUpdate)
	mux.HandleFunc("PUT /v4/spreadsheets/{id}/values/{range}", f.handleValuesUpdate)
	mux.HandleFunc("GET /v4/spreadsheets/{id}/values/{range}", f.handleValuesGet)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// Endpoint is the root URL to pass to option.WithEndpoint.
func (f *FakeSheets) Endpoint() string { return f.Server.URL + "/" }

// Seed adds a worksheet with existing content.
func (f *FakeSheets) Seed(title string, values [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.sheets = append(f.sheets, &FakeSheet{
		ID: f.nextID, Title: title, Rows: int64(len(values)), Columns: 26, Values: values,
	})
}

// Titles lists worksheet titles in tab order.
func (f *FakeSheets) Titles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sheets))
	for _, s := range f.sheets {
		out = append(out, s.Title)
	}
	return out
}

// Sheet returns a copy of the worksheet with the given title.
func (f *FakeSheets) Sheet(title string) (FakeSheet, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s := f.find(title); s != nil {
		cp := *s
		cp.Values = append([][]string(nil), s.Values...)
		return cp, true
	}
	return FakeSheet{}, false
}

// Calls lists the operations received, e.g. "get", "deleteSheet", "addSheet", "values.update".
func (f *FakeSheets) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeSheets) find(title string) *FakeSheet {
	for _, s := range f.sheets {
		if s.Title == title {
			return s
		}
	}
	return nil
}

func (f *FakeSheets) checkID(w http.ResponseWriter, id string) bool {
	if id != f.SpreadsheetID {
		writeGoogleError(w, http.StatusNotFound, "Requested entity was not found.")
		return false
	}
	return true
}

func (f *FakeSheets) handleGet(w http.ResponseWriter, r *http.Request) {
	if !f.checkID(w, r.PathValue("id")) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "get")

	sheets := make([]map[string]any, 0, len(f.sheets))
	for i, s := range f.sheets {
		sheets = append(sheets, map[string]any{"properties": sheetProperties(s, i)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"spreadsheetId": f.SpreadsheetID, "sheets": sheets})
}

type batchRequest struct {
	Requests []struct {
		DeleteSheet *struct {
			SheetID *int64 `json:"sheetId"`
		} `json:"deleteSheet"`
		AddSheet *struct {
			Properties struct {
				Title          string `json:"title"`
				GridProperties struct {
					RowCount    int64 `json:"rowCount"`
					ColumnCount int64 `json:"columnCount"`
				} `json:"gridProperties"`
			} `json:"properties"`
		} `json:"addSheet"`
	} `json:"requests"`
}

func (f *FakeSheets) handleBatchUpdate(w http.ResponseWriter, r *http.Request) {
	id, op, ok := strings.Cut(r.PathValue("op"), ":")
	if !ok || op != "batchUpdate" {
		http.NotFound(w, r)
		return
	}
	if !f.checkID(w, id) {
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGoogleError(w, http.StatusBadRequest, err.Error())
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	replies := make([]map[string]any, 0, len(req.Requests))
	for _, q := range req.Requests {
		switch {
		case q.DeleteSheet != nil:
			f.calls = append(f.calls, "deleteSheet")
			if q.DeleteSheet.SheetID == nil {
				writeGoogleError(w, http.StatusBadRequest, "Invalid requests[0].deleteSheet: sheetId is required")
				return
			}
			idx := -1
			for i, s := range f.sheets {
				if s.ID == *q.DeleteSheet.SheetID {
					idx = i
				}
			}
			if idx < 0 {
				writeGoogleError(w, http.StatusBadRequest, fmt.Sprintf("No grid with id: %d", *q.DeleteSheet.SheetID))
				return
			}
			f.sheets = append(f.sheets[:idx], f.sheets[idx+1:]...)
			replies = append(replies, map[string]any{})

		case q.AddSheet != nil:
			f.calls = append(f.calls, "addSheet")
			p := q.AddSheet.Properties
			if f.find(p.Title) != nil {
				writeGoogleError(w, http.StatusBadRequest,
					fmt.Sprintf("Invalid requests[0].addSheet: A sheet with the name %q already exists. Please enter another name.", p.Title))
				return
			}
			f.nextID++
			s := &FakeSheet{ID: f.nextID, Title: p.Title, Rows: p.GridProperties.RowCount, Columns: p.GridProperties.ColumnCount}
			f.sheets = append(f.sheets, s)
			replies = append(replies, map[string]any{"addSheet": map[string]any{"properties": sheetProperties(s, len(f.sheets)-1)}})

		default:
			writeGoogleError(w, http.StatusBadRequest, "unsupported request")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"spreadsheetId": f.SpreadsheetID, "replies": replies})
}

func (f *FakeSheets) handleValuesUpdate(w http.ResponseWriter, r *http.Request) {
	if !f.checkID(w, r.PathValue("id")) {
		return
	}
	if r.URL.Query().Get("valueInputOption") != "RAW" {
		writeGoogleError(w, http.StatusBadRequest, "valueInputOption must be RAW")
		return
	}

	var body struct {
		Values [][]any `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeGoogleError(w, http.StatusBadRequest, err.Error())
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "values.update")

	title, cell := splitRange(r.PathValue("range"))
	s := f.find(title)
	if s == nil {
		writeGoogleError(w, http.StatusBadRequest, "Unable to parse range: "+r.PathValue("range"))
		return
	}
	if cell != "A1" {
		writeGoogleError(w, http.StatusBadRequest, "fake only supports writes anchored at A1")
		return
	}

	var cols int
	values := make([][]string, 0, len(body.Values))
	for _, row := range body.Values {
		out := make([]string, len(row))
		for i, v := range row {
			out[i] = fmt.Sprint(v)
		}
		cols = max(cols, len(row))
		values = append(values, out)
	}
	if int64(len(values)) > s.Rows || int64(cols) > s.Columns {
		writeGoogleError(w, http.StatusBadRequest,
			fmt.Sprintf("Range exceeds grid limits. Max rows: %d, max columns: %d", s.Rows, s.Columns))
		return
	}
	s.Values = values

	writeJSON(w, http.StatusOK, map[string]any{
		"spreadsheetId":  f.SpreadsheetID,
		"updatedRange":   r.PathValue("range"),
		"updatedRows":    len(values),
		"updatedColumns": cols,
	})
}

func (f *FakeSheets) handleValuesGet(w http.ResponseWriter, r *http.Request) {
	if !f.checkID(w, r.PathValue("id")) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "values.get")

	title, _ := splitRange(r.PathValue("range"))
	s := f.find(title)
	if s == nil {
		writeGoogleError(w, http.StatusBadRequest, "Unable to parse range: "+r.PathValue("range"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"range":          r.PathValue("range"),
		"majorDimension": "ROWS",
		"values":         s.Values,
	})
}

// splitRange splits "'Title'!A1" into its sheet title and cell reference.
func splitRange(rng string) (string, string) {
	title, cell := rng, ""
	if i := strings.LastIndex(rng, "!"); i >= 0 {
		title, cell = rng[:i], rng[i+1:]
	}
	if len(title) >= 2 && strings.HasPrefix(title, "'") && strings.HasSuffix(title, "'") {
		title = strings.ReplaceAll(title[1:len(title)-1], "''", "'")
	}
	return title, cell
}

func sheetProperties(s *FakeSheet, index int) map[string]any {
	return map[string]any{
		"sheetId": s.ID,
		"title":   s.Title,
		"index":   index,
		"gridProperties": map[string]int64{
			"rowCount":    s.Rows,
			"columnCount": s.Columns,
		},
	}
}

func writeGoogleError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"code": status, "message": msg, "status": http.StatusText(status)},
	})
}
