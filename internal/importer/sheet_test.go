package importer

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"dispatch-app/backend/internal/logging"
	gormModels "dispatch-app/backend/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const twoRowIBT = "IBT No,From Branch,To Branch,Transfer Date,Priority,Pallets\n" +
	"IBT-0001,K58 Warehouse,K63 Warehouse,2025-10-10,Normal,10\n" +
	",K58 Warehouse,K63 Warehouse,2025-10-11,Urgent,5"

func TestParser_TwoRowIBTScenario(t *testing.T) {
	res := NewParser(IBTProfile(), nowFunc).Parse([]byte(twoRowIBT), FormatCSV)

	require.True(t, res.Readable)
	assert.Equal(t, 2, res.DataRows)
	require.Len(t, res.Records, 2, "the IBT customer constant keeps the ref-less row")

	first := res.Records[0]
	assert.Equal(t, "IBT-0001", first.Ref)
	assert.Equal(t, IBTCustomer, first.Customer)
	assert.Equal(t, gormModels.PriorityNormal, first.Priority)
	require.NotNil(t, first.Eta)
	assert.Equal(t, "2025-10-10", *first.Eta)
	require.NotNil(t, first.Pallets)
	assert.Equal(t, 10, *first.Pallets)
	assert.Equal(t, "K58 Warehouse", first.Pickup)
	assert.Equal(t, "K63 Warehouse", first.Dropoff)

	second := res.Records[1]
	assert.Equal(t, fmt.Sprintf("IBT-%d-2", fixedNow.UnixMilli()), second.Ref)
	assert.Equal(t, gormModels.PriorityHigh, second.Priority)
	require.NotNil(t, second.Eta)
	assert.Equal(t, "2025-10-11", *second.Eta)
	require.NotNil(t, second.Pallets)
	assert.Equal(t, 5, *second.Pallets)
}

func TestParser_DroppedRowsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetLogger(zap.New(core))
	t.Cleanup(func() { logging.SetLogger(zap.NewNop()) })

	csv := "\ufeffOrder No,Customer,Deliver To\n" +
		"SO-1,Acme,Dock 4\n" +
		",,\n" +
		"SO-2,,Dock 5\n" +
		",,Nowhere\n"
	res := NewParser(OrderProfile(), nowFunc).Parse([]byte(csv), FormatCSV)

	require.True(t, res.Readable)
	assert.Equal(t, 3, res.DataRows, "blank rows are not data rows")
	require.Len(t, res.Records, 1)
	assert.Equal(t, "SO-1", res.Records[0].Ref, "BOM stripped from first header")
	assert.Equal(t, 2, res.Dropped())

	dropped := logs.FilterMessage("Import row dropped").All()
	require.Len(t, dropped, 2)
	assert.Equal(t, int64(3), dropped[0].ContextMap()["row"])
	assert.Equal(t, ErrMissingCustomer.Error(), dropped[0].ContextMap()["reason"])
	assert.Equal(t, ErrMissingMandatory.Error(), dropped[1].ContextMap()["reason"])

	summary := logs.FilterMessage("Import file parsed").All()
	require.Len(t, summary, 1)
	assert.Equal(t, int64(2), summary[0].ContextMap()["dropped"])
}

func TestParser_Unreadable(t *testing.T) {
	p := NewParser(IBTProfile(), nowFunc)

	res := p.Parse([]byte("not a zip archive"), FormatXLSX)
	assert.False(t, res.Readable)
	assert.Empty(t, res.Records)

	res = p.Parse([]byte("anything"), FormatXLS)
	assert.False(t, res.Readable)

	res = p.Parse([]byte("IBT No\n"), FormatCSV)
	assert.True(t, res.Readable, "header only is readable but empty")
	assert.Empty(t, res.Records)
	assert.Zero(t, res.DataRows)
}

func TestParser_XLSXCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"IBT No", "Warehouse", "Transfer Date", "Pallets", "Outstanding Qty"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"0012", "K58", time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC), 10, "1,250"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"IBT-9", "", 45941, 2.0}))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	res := NewParser(IBTProfile(), nowFunc).Parse(buf.Bytes(), FormatXLSX)
	require.True(t, res.Readable)
	require.Len(t, res.Records, 2)

	first := res.Records[0]
	assert.Equal(t, "0012", first.Ref, "text cells keep leading zeros")
	require.NotNil(t, first.Eta)
	assert.Equal(t, "2025-10-10", *first.Eta)
	require.NotNil(t, first.Pallets)
	assert.Equal(t, 10, *first.Pallets)
	require.NotNil(t, first.OutstandingQty)
	assert.Equal(t, 1250, *first.OutstandingQty)

	second := res.Records[1]
	require.NotNil(t, second.Eta)
	assert.Equal(t, "2025-10-11", *second.Eta)
	assert.Equal(t, "Source Branch", second.Pickup)
}

func TestDetectFormat(t *testing.T) {
	f, ok := DetectFormat("Transfers.XLSX")
	assert.True(t, ok)
	assert.Equal(t, FormatXLSX, f)

	f, ok = DetectFormat("orders.csv")
	assert.True(t, ok)
	assert.Equal(t, FormatCSV, f)

	_, ok = DetectFormat("notes.pdf")
	assert.False(t, ok)

	f, ok = ParseFormat("spreadsheet")
	assert.True(t, ok)
	assert.Equal(t, FormatXLSX, f)
}
