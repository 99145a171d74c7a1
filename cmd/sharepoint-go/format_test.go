package main

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// --- formatSize tests ---

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 512, "512 B"},
		{"just under a kilobyte", 1023, "1023 B"},
		{"exact kilobyte", 1024, "1.0 KB"},
		{"one and a half kilobytes", 1536, "1.5 KB"},
		{"megabytes", 5 * 1024 * 1024, "5.0 MB"},
		{"gigabytes", 1024 * 1024 * 1024, "1.0 GB"},
		{"terabytes", 1024 * 1024 * 1024 * 1024, "1.0 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatSize(tt.bytes))
		})
	}
}

// --- formatTime tests ---

func TestFormatTime_CurrentYear(t *testing.T) {
	ts := time.Date(time.Now().Year(), time.March, 5, 14, 30, 0, 0, time.UTC)

	got := formatTime(ts.Format(time.RFC3339))

	assert.Equal(t, "Mar  5 14:30", got)
}

func TestFormatTime_PastYear(t *testing.T) {
	got := formatTime("2019-03-05T14:30:00Z")

	assert.Equal(t, "Mar  5  2019", got)
}

func TestFormatTime_UnparseablePassesThrough(t *testing.T) {
	assert.Equal(t, "not-a-date", formatTime("not-a-date"))
	assert.Equal(t, "", formatTime(""))
}

// --- printTable tests ---

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer

	headers := []string{"NAME", "SIZE"}
	rows := [][]string{
		{"report.csv", "1.2 KB"},
		{"a.txt", "12 B"},
	}

	printTable(&buf, headers, rows)

	want := "NAME        SIZE  \n" +
		"report.csv  1.2 KB\n" +
		"a.txt       12 B  \n"
	assert.Equal(t, want, buf.String())
}

func TestPrintTable_NoRows(t *testing.T) {
	var buf bytes.Buffer

	printTable(&buf, []string{"NAME", "TYPE"}, nil)

	assert.Equal(t, "NAME  TYPE\n", buf.String())
}

func TestPrintTable_ColumnWiderThanHeader(t *testing.T) {
	var buf bytes.Buffer

	printTable(&buf, []string{"ID"}, [][]string{{"0123456789abcdef"}})

	assert.Equal(t, fmt.Sprintf("%-16s\n0123456789abcdef\n", "ID"), buf.String())
}
