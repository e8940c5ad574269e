package viewdata_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/campusdesk/internal/app/system/destination"
	"github.com/dalemusser/campusdesk/internal/app/system/viewdata"
	"github.com/dalemusser/campusdesk/internal/testutil"
)

func TestNewBaseVM_Anonymous(t *testing.T) {
	r := httptest.NewRequest("GET", "/complaints/new", nil)
	vm := viewdata.NewBaseVM(r, "New complaint", "/")

	if vm.IsLoggedIn || vm.Role != "" || vm.UserName != "" {
		t.Errorf("anonymous vm carries user data: %+v", vm)
	}
	if vm.SiteName != viewdata.SiteName || vm.Title != "New complaint" {
		t.Errorf("unexpected vm: %+v", vm)
	}
	if vm.Dashboard != "" {
		t.Errorf("Dashboard: got %q, want empty", vm.Dashboard)
	}
}

func TestNewBaseVM_SignedIn(t *testing.T) {
	u := testutil.DirectorUser()
	r := testutil.NewAuthenticatedRequest("GET", "/director", u)
	vm := viewdata.NewBaseVM(r, "Director", "/")

	if !vm.IsLoggedIn || vm.Role != u.Role || vm.UserName != u.Name {
		t.Errorf("unexpected vm: %+v", vm)
	}
	if vm.Dashboard != destination.DirectorDashboard {
		t.Errorf("Dashboard: got %q, want %q", vm.Dashboard, destination.DirectorDashboard)
	}
}
