package inputval

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"facilities@campus.edu",
		"pat.lee+hvac@north.campus.edu",
		"ops@localhost",
		"  trimmed@campus.edu  ",
	}
	invalid := []string{
		"",
		"no-at-sign",
		"@campus.edu",
		"worker@",
		".dot@campus.edu",
		"dot.@campus.edu",
		"two..dots@campus.edu",
		"worker@campus..edu",
		"Pat Lee <pat@campus.edu>",
		"pat lee@campus.edu",
	}

	for _, s := range valid {
		if !IsValidEmail(s) {
			t.Errorf("IsValidEmail(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidEmail(s) {
			t.Errorf("IsValidEmail(%q) = true, want false", s)
		}
	}
}

func TestIsValidObjectID(t *testing.T) {
	cases := map[string]bool{
		"65a1b2c3d4e5f60718293a4b":   true,
		" 65A1B2C3D4E5F60718293A4B ": true,
		"65a1b2c3d4e5f60718293a4":    false,
		"65a1b2c3d4e5f60718293a4bz":  false,
		"zza1b2c3d4e5f60718293a4b":   false,
		"":                           false,
	}
	for id, want := range cases {
		if got := IsValidObjectID(id); got != want {
			t.Errorf("IsValidObjectID(%q) = %v, want %v", id, got, want)
		}
	}
}

type complaintForm struct {
	CampusID    string `validate:"required,objectid" label:"Campus"`
	Location    string `validate:"required,max=12" label:"Location"`
	Status      string `validate:"omitempty,oneof=pending in_progress resolved" label:"Status"`
	ContactMail string `validate:"omitempty,email" label:"Contact email"`
	Notes       string `validate:"omitempty,min=5"`
}

func validForm() complaintForm {
	return complaintForm{
		CampusID: "65a1b2c3d4e5f60718293a4b",
		Location: "Room 204",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*complaintForm)
		want   []string
	}{
		{"valid", func(*complaintForm) {}, nil},
		{"missing campus", func(f *complaintForm) { f.CampusID = "" }, []string{"Campus is required."}},
		{"bad campus id", func(f *complaintForm) { f.CampusID = "east-campus" }, []string{"Campus is not a valid selection."}},
		{"location too long", func(f *complaintForm) { f.Location = "Gymnasium locker room" }, []string{"Location must be at most 12 characters."}},
		{"unknown status", func(f *complaintForm) { f.Status = "closed" }, []string{"Status must be one of: pending, in_progress, resolved."}},
		{"bad contact email", func(f *complaintForm) { f.ContactMail = "nobody" }, []string{"A valid contact email is required."}},
		{"unlabelled field", func(f *complaintForm) { f.Notes = "hi" }, []string{"Notes must be at least 5 characters."}},
		{"errors keep field order", func(f *complaintForm) {
			f.CampusID = ""
			f.Location = ""
		}, []string{"Campus is required.", "Location is required."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			res := Validate(f)

			got := res.Messages()
			if len(got) != len(tt.want) {
				t.Fatalf("messages = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("message[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
			if res.HasErrors() != (len(tt.want) > 0) {
				t.Errorf("HasErrors = %v", res.HasErrors())
			}
		})
	}
}

func TestValidate_ResultHelpers(t *testing.T) {
	res := Validate(complaintForm{})
	if res.First() != "Campus is required." {
		t.Errorf("First() = %q", res.First())
	}
	if all := res.All(); !strings.Contains(all, "; Location is required.") {
		t.Errorf("All() = %q, want joined messages", all)
	}
	if res.Errors[0].Field != "Campus" || res.Errors[0].Tag != "required" {
		t.Errorf("Errors[0] = %+v", res.Errors[0])
	}

	empty := Validate(validForm())
	if empty.First() != "" || empty.All() != "" || len(empty.Messages()) != 0 {
		t.Errorf("valid input produced messages: %+v", empty.Errors)
	}
}

func TestValidate_NonStruct(t *testing.T) {
	res := Validate("not a struct")
	if res.First() != "Invalid input." {
		t.Errorf("First() = %q, want %q", res.First(), "Invalid input.")
	}
}
