package batch

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		paramName string
		want      []string
		wantErr   bool
	}{
		{
			name:      "single id",
			input:     "198f2ab9c3d1e045",
			paramName: "messageIds",
			want:      []string{"198f2ab9c3d1e045"},
			wantErr:   false,
		},
		{
			name:      "array of ids",
			input:     []interface{}{"msg-1", "msg-2", "msg-3"},
			paramName: "messageIds",
			want:      []string{"msg-1", "msg-2", "msg-3"},
			wantErr:   false,
		},
		{
			name:      "nil input",
			input:     nil,
			paramName: "messageIds",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "empty string",
			input:     "",
			paramName: "messageIds",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "empty array",
			input:     []interface{}{},
			paramName: "messageIds",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "array with non-string",
			input:     []interface{}{"msg-1", 123, "msg-3"},
			paramName: "messageIds",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "array with empty string",
			input:     []interface{}{"msg-1", "", "msg-3"},
			paramName: "messageIds",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "invalid type",
			input:     123,
			paramName: "messageIds",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "JSON string array",
			input:     `["msg-1", "msg-2", "msg-3"]`,
			paramName: "messageIds",
			want:      []string{"msg-1", "msg-2", "msg-3"},
			wantErr:   false,
		},
		{
			name:      "JSON string array of hex ids",
			input:     `["198f2ab9c3d1e045", "198f2ab9c3d1e046"]`,
			paramName: "messageIds",
			want:      []string{"198f2ab9c3d1e045", "198f2ab9c3d1e046"},
			wantErr:   false,
		},
		{
			name:      "JSON string single element array",
			input:     `["198f2ab9c3d1e045"]`,
			paramName: "messageIds",
			want:      []string{"198f2ab9c3d1e045"},
			wantErr:   false,
		},
		{
			name:      "JSON string empty array",
			input:     `[]`,
			paramName: "messageIds",
			want:      nil,
			wantErr:   true,
		},
		{
			name:      "invalid JSON string stays literal",
			input:     `[invalid json`,
			paramName: "messageIds",
			want:      []string{`[invalid json`},
			wantErr:   false,
		},
		{
			name:      "bracketed text that is not JSON stays literal",
			input:     `[thread] 198f2ab9`,
			paramName: "messageIds",
			want:      []string{`[thread] 198f2ab9`},
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.input, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseStringOrArray() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !stringSliceEqual(got, tt.want) {
				t.Errorf("ParseStringOrArray() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatResults(t *testing.T) {
	results := []Result{
		{ID: "msg-1", Status: "success", Result: "Fetched and cached"},
		{ID: "msg-2", Status: "success", Result: "Fetched and cached"},
		{ID: "msg-3", Status: "error", Error: "failed to get message msg-3"},
	}

	output := FormatResults(results)

	var br BatchResult
	if err := json.Unmarshal([]byte(output), &br); err != nil {
		t.Fatalf("Failed to parse output JSON: %v", err)
	}

	if br.Total != 3 {
		t.Errorf("Total = %d, want 3", br.Total)
	}
	if br.Successful != 2 {
		t.Errorf("Successful = %d, want 2", br.Successful)
	}
	if br.Failed != 1 {
		t.Errorf("Failed = %d, want 1", br.Failed)
	}
	if len(br.Results) != 3 {
		t.Errorf("len(Results) = %d, want 3", len(br.Results))
	}
}

func TestProcessBatch(t *testing.T) {
	ids := []string{"msg-1", "msg-2", "msg-3"}

	// msg-2 fails; the batch must keep going
	fn := func(id string) (string, error) {
		if id == "msg-2" {
			return "", errors.New("message msg-2 not found")
		}
		return "stripped " + id, nil
	}

	results := ProcessBatch(ids, fn)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	if results[0].Status != "success" {
		t.Errorf("results[0].Status = %s, want success", results[0].Status)
	}
	if results[0].Result != "stripped msg-1" {
		t.Errorf("results[0].Result = %s, want 'stripped msg-1'", results[0].Result)
	}

	if results[1].Status != "error" {
		t.Errorf("results[1].Status = %s, want error", results[1].Status)
	}
	if results[1].Error != "message msg-2 not found" {
		t.Errorf("results[1].Error = %s, want 'message msg-2 not found'", results[1].Error)
	}

	if results[2].Status != "success" {
		t.Errorf("results[2].Status = %s, want success", results[2].Status)
	}
	if results[2].Result != "stripped msg-3" {
		t.Errorf("results[2].Result = %s, want 'stripped msg-3'", results[2].Result)
	}
}

func TestNewSuccessResult(t *testing.T) {
	result := NewSuccessResult("msg-42", "Moved to trash")

	if result.ID != "msg-42" {
		t.Errorf("ID = %s, want msg-42", result.ID)
	}
	if result.Status != "success" {
		t.Errorf("Status = %s, want success", result.Status)
	}
	if result.Result != "Moved to trash" {
		t.Errorf("Result = %s, want 'Moved to trash'", result.Result)
	}
	if result.Error != "" {
		t.Errorf("Error should be empty, got %s", result.Error)
	}
}

func TestNewErrorResult(t *testing.T) {
	err := errors.New("rate limit exceeded")
	result := NewErrorResult("msg-42", err)

	if result.ID != "msg-42" {
		t.Errorf("ID = %s, want msg-42", result.ID)
	}
	if result.Status != "error" {
		t.Errorf("Status = %s, want error", result.Status)
	}
	if result.Error != "rate limit exceeded" {
		t.Errorf("Error = %s, want 'rate limit exceeded'", result.Error)
	}
	if result.Result != "" {
		t.Errorf("Result should be empty, got %s", result.Result)
	}
}

// Helper function to compare string slices
func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
