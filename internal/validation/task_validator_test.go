package validation

import (
	"strings"
	"testing"
	"time"

	"todo-list/internal/config"
	"todo-list/internal/domain"
)

func validReminder() int64 {
	return time.Now().Add(time.Hour).UnixMilli()
}

func firstErrorType(t *testing.T, err error) ValidationErrorType {
	t.Helper()
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Errors) == 0 {
		t.Fatal("ValidationError has no field errors")
	}
	return ve.Errors[0].Type
}

func TestTaskValidator_ValidateTaskName(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name      string
		input     string
		wantError bool
		wantType  ValidationErrorType
	}{
		{"Valid", "Buy milk", false, ""},
		{"Surrounding whitespace", "  Buy milk  ", false, ""},
		{"Unicode", "Café ☕", false, ""},
		{"Empty", "", true, ErrorTypeRequired},
		{"Whitespace only", "   ", true, ErrorTypeRequired},
		{"Too long", strings.Repeat("a", 256), true, ErrorTypeInvalidLength},
		{"Control character", "Buy\x00milk", true, ErrorTypeInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTaskName(tt.input)
			if !tt.wantError {
				if err != nil {
					t.Errorf("ValidateTaskName(%q) unexpected error: %v", tt.input, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateTaskName(%q) expected error", tt.input)
			}
			if got := firstErrorType(t, err); got != tt.wantType {
				t.Errorf("error type = %v, want %v", got, tt.wantType)
			}
		})
	}
}

func TestTaskValidator_RequiredNameMessage(t *testing.T) {
	err := NewTaskValidator().ValidateTaskName("")
	ve := err.(*ValidationError)
	if ve.GetUserFriendlyMessage() != "task name is required" {
		t.Errorf("message = %q", ve.GetUserFriendlyMessage())
	}
	if ve.Errors[0].Field != FieldName {
		t.Errorf("field = %q, want %q", ve.Errors[0].Field, FieldName)
	}
}

func TestTaskValidator_ValidateNote(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Validation.NoteMaxLength = 10
	validator := NewTaskValidatorWithConfig(cfg)

	if err := validator.ValidateNote(""); err != nil {
		t.Errorf("empty note should be valid: %v", err)
	}
	if err := validator.ValidateNote("two\nlines"); err != nil {
		t.Errorf("multi-line note should be valid: %v", err)
	}
	if err := validator.ValidateNote("  0123456789  "); err != nil {
		t.Errorf("note should be trimmed before counting: %v", err)
	}
	err := validator.ValidateNote("01234567890")
	if err == nil {
		t.Fatal("11 characters should exceed a max of 10")
	}
	if got := firstErrorType(t, err); got != ErrorTypeInvalidLength {
		t.Errorf("error type = %v", got)
	}
}

func TestTaskValidator_ValidateReminderTime(t *testing.T) {
	validator := NewTaskValidator()

	if err := validator.ValidateReminderTime(validReminder()); err != nil {
		t.Errorf("valid reminder rejected: %v", err)
	}
	if got := firstErrorType(t, validator.ValidateReminderTime(0)); got != ErrorTypeRequired {
		t.Errorf("zero reminder error type = %v, want required", got)
	}
	far := time.Now().AddDate(50, 0, 0).UnixMilli()
	if got := firstErrorType(t, validator.ValidateReminderTime(far)); got != ErrorTypeInvalidValue {
		t.Errorf("far reminder error type = %v, want invalid value", got)
	}
}

func TestTaskValidator_ValidateTaskForCreation(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name      string
		task      domain.Task
		wantError bool
		field     string
	}{
		{"Valid", domain.Task{Name: "Buy milk", ReminderTime: validReminder()}, false, ""},
		{"With note", domain.Task{Name: "Buy milk", Note: "2 litres", ReminderTime: validReminder()}, false, ""},
		{"Missing name", domain.Task{ReminderTime: validReminder()}, true, FieldName},
		{"Missing reminder", domain.Task{Name: "Buy milk"}, true, FieldReminder},
		{"Preset ID", domain.Task{ID: 7, Name: "Buy milk", ReminderTime: validReminder()}, true, FieldID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTaskForCreation(tt.task)
			if !tt.wantError {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			ve := err.(*ValidationError)
			if len(fieldErrors(ve, tt.field)) == 0 {
				t.Errorf("expected an error for field %q, got %v", tt.field, ve)
			}
		})
	}
}

func TestTaskValidator_CollectsAllFieldErrors(t *testing.T) {
	err := NewTaskValidator().ValidateTaskForCreation(domain.Task{Name: " ", Note: "bad\x00", ReminderTime: 0})
	if err == nil {
		t.Fatal("expected error")
	}
	ve := err.(*ValidationError)
	if len(ve.Errors) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(ve.Errors), ve)
	}
}

func TestTaskValidator_ValidateTaskForUpdate(t *testing.T) {
	validator := NewTaskValidator()

	valid := domain.Task{ID: 3, Name: "Pay rent", IsCompleted: true, ReminderTime: validReminder()}
	if err := validator.ValidateTaskForUpdate(valid); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	noID := valid
	noID.ID = 0
	err := validator.ValidateTaskForUpdate(noID)
	if err == nil {
		t.Fatal("update without an ID should fail")
	}
	if len(fieldErrors(err.(*ValidationError), FieldID)) != 1 {
		t.Errorf("expected exactly one ID error: %v", err)
	}

	negative := valid
	negative.ID = -4
	negative.Name = ""
	err = validator.ValidateTaskForUpdate(negative)
	if err == nil {
		t.Fatal("expected error")
	}
	ve := err.(*ValidationError)
	if len(fieldErrors(ve, FieldID)) != 1 || len(fieldErrors(ve, FieldName)) != 1 {
		t.Errorf("expected one ID and one name error, got %v", ve)
	}
}

func TestTaskValidator_ValidateTaskID(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		id        int64
		wantError bool
	}{
		{1, false},
		{99, false},
		{0, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := validator.ValidateTaskID(tt.id)
		if (err != nil) != tt.wantError {
			t.Errorf("ValidateTaskID(%d) error = %v, wantError %v", tt.id, err, tt.wantError)
		}
	}
}

func TestTaskValidator_CleanTask(t *testing.T) {
	task := NewTaskValidator().CleanTask(domain.Task{ID: 2, Name: "  Buy milk ", Note: "\n2 litres\n", ReminderTime: 5})
	want := domain.Task{ID: 2, Name: "Buy milk", Note: "2 litres", ReminderTime: 5}
	if task != want {
		t.Errorf("CleanTask() = %+v, want %+v", task, want)
	}
}
