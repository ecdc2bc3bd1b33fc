package customer

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"route-ledger/internal/ledger"
	"route-ledger/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// Import columns, in order: name, address, delivery day, account type,
// territory. An optional first header row is detected by its first cell.
const importColumns = 5

type ImportFailure struct {
	Row   int    `json:"row"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

type ImportResult struct {
	Created []ledger.CustomerView `json:"created"`
	Failed  []ImportFailure       `json:"failed"`
}

// ReadSheet reads customer rows from the first sheet of an .xlsx workbook.
// The returned row numbers are 1-based spreadsheet rows.
func ReadSheet(r io.Reader) ([]ledger.CustomerInput, []int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	start := 0
	if len(rows) > 0 && len(rows[0]) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), "name") {
		start = 1
	}

	var (
		inputs  []ledger.CustomerInput
		rowNums []int
	)
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		cells := make([]string, importColumns)
		for j := 0; j < importColumns && j < len(row); j++ {
			cells[j] = strings.TrimSpace(row[j])
		}
		inputs = append(inputs, ledger.CustomerInput{
			Name:        cells[0],
			Address:     cells[1],
			DeliveryDay: models.DeliveryDay(titleCase(cells[2])),
			AccountType: models.AccountType(titleCase(cells[3])),
			Territory:   models.Territory(titleCase(cells[4])),
		})
		rowNums = append(rowNums, i+1)
	}
	return inputs, rowNums, nil
}

func titleCase(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}

// POST /api/customers/import (multipart, field "file"). Each row is created
// on its own; a bad row is reported and does not stop the others.
func ImportCustomersHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file is required")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "only .xlsx files can be imported")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not open upload")
		}
		defer file.Close()

		inputs, rowNums, err := ReadSheet(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if len(inputs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "no customer rows found")
		}

		res := ImportResult{
			Created: []ledger.CustomerView{},
			Failed:  []ImportFailure{},
		}
		for i, in := range inputs {
			created, err := l.CreateCustomer(c.UserContext(), in)
			if err != nil {
				res.Failed = append(res.Failed, ImportFailure{Row: rowNums[i], Name: in.Name, Error: err.Error()})
				continue
			}
			res.Created = append(res.Created, created)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
