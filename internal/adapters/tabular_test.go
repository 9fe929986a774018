package adapters

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FairLens/internal/fairness"
)

func readCSV(t *testing.T, csvData, groupCol, yTrueCol, yPredCol string) ([]fairness.GroupRecord, error) {
	t.Helper()
	src := NewTabularSource(strings.NewReader(csvData), groupCol, yTrueCol, yPredCol)
	return src.Read(context.Background())
}

func TestReadLabeledDataset(t *testing.T) {
	records, err := readCSV(t, `group,y_true,y_pred
a,1,1
a,0,0
b,1,0
`, "group", "y_true", "y_pred")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "a", records[0].Group)
	require.NotNil(t, records[0].YTrue)
	assert.Equal(t, 1, *records[0].YTrue)
	assert.Equal(t, 1, records[0].YPred)

	assert.Equal(t, "b", records[2].Group)
	assert.Equal(t, 0, records[2].YPred)
}

func TestReadWithoutGroundTruthColumn(t *testing.T) {
	records, err := readCSV(t, `group,y_pred
a,1
b,0
`, "group", "", "y_pred")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Nil(t, records[0].YTrue)
	assert.Nil(t, records[1].YTrue)
}

func TestReadEmptyGroundTruthCells(t *testing.T) {
	records, err := readCSV(t, `group,y_true,y_pred
a,1,1
a,,0
`, "group", "y_true", "y_pred")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.NotNil(t, records[0].YTrue)
	assert.Nil(t, records[1].YTrue)
}

func TestReadMissingColumn(t *testing.T) {
	_, err := readCSV(t, "group,y_pred\na,1\n", "group", "", "prediction")
	var verr *fairness.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "y_pred_column", verr.Field)
}

func TestReadBadBinaryValue(t *testing.T) {
	_, err := readCSV(t, "group,y_pred\na,yes\n", "group", "", "y_pred")
	var verr *fairness.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "row 2")
	assert.Contains(t, verr.Message, "y_pred")
}

func TestReadEmptyGroupLabel(t *testing.T) {
	_, err := readCSV(t, "group,y_pred\n  ,1\n", "group", "", "y_pred")
	var verr *fairness.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "empty group label")
}

func TestReadHeaderOnly(t *testing.T) {
	_, err := readCSV(t, "group,y_pred\n", "group", "", "y_pred")
	var verr *fairness.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "no data rows")
}

func TestReadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewTabularSource(strings.NewReader("group,y_pred\na,1\n"), "group", "", "y_pred")
	_, err := src.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadTrimsHeaderWhitespace(t *testing.T) {
	records, err := readCSV(t, "group, y_pred\na,1\n", "group", "", "y_pred")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].YPred)
}
