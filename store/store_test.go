package store

import (
	"errors"
	"path/filepath"
	"testing"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOrderCRUD(t *testing.T) {
	db := testDB(t)

	o := &Order{CustomerName: "Asha", Phone: "+915550100", Address: "12 Hazratganj", TotalAmount: 4200}
	if err := db.CreateOrder(o); err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID == "" {
		t.Fatal("ID should be assigned")
	}

	got, err := db.GetOrder(o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CustomerName != "Asha" {
		t.Errorf("CustomerName = %q", got.CustomerName)
	}
	if got.DeliveryStatus != "pending" {
		t.Errorf("DeliveryStatus = %q, want pending", got.DeliveryStatus)
	}
	if got.TrackingToken != nil || got.DriverToken != nil {
		t.Error("tokens should be absent until issued")
	}

	if err := db.SetDeliveryStatus(o.ID, "confirmed"); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, _ = db.GetOrder(o.ID)
	if got.DeliveryStatus != "confirmed" {
		t.Errorf("DeliveryStatus = %q, want confirmed", got.DeliveryStatus)
	}

	orders, err := db.ListOrders()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("len = %d, want 1", len(orders))
	}

	if _, err := db.GetOrder("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetOrder(missing) = %v, want ErrNotFound", err)
	}
	if err := db.SetDeliveryStatus("missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetDeliveryStatus(missing) = %v, want ErrNotFound", err)
	}
}

func TestTokenColumns(t *testing.T) {
	db := testDB(t)
	o := &Order{CustomerName: "Ravi", Address: "MG Road"}
	if err := db.CreateOrder(o); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := db.SetCustomerToken(o.ID, "cust-token"); err != nil {
		t.Fatalf("set customer token: %v", err)
	}
	if err := db.SetDriverToken(o.ID, "driver-3", "drv-token"); err != nil {
		t.Fatalf("set driver token: %v", err)
	}

	got, _ := db.GetOrder(o.ID)
	if got.TrackingToken == nil || *got.TrackingToken != "cust-token" {
		t.Errorf("TrackingToken = %v", got.TrackingToken)
	}
	if got.DriverToken == nil || *got.DriverToken != "drv-token" {
		t.Errorf("DriverToken = %v", got.DriverToken)
	}
	if got.DriverID == nil || *got.DriverID != "driver-3" {
		t.Errorf("DriverID = %v", got.DriverID)
	}

	// Empty driverID leaves the assignment alone
	if err := db.SetDriverToken(o.ID, "", "drv-token-2"); err != nil {
		t.Fatalf("reissue driver token: %v", err)
	}
	got, _ = db.GetOrder(o.ID)
	if got.DriverID == nil || *got.DriverID != "driver-3" {
		t.Errorf("DriverID after reissue = %v, want driver-3", got.DriverID)
	}

	if err := db.SetCustomerToken("missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetCustomerToken(missing) = %v, want ErrNotFound", err)
	}
}

func TestUpdateDriverLocation(t *testing.T) {
	db := testDB(t)
	o := &Order{CustomerName: "Meera", Address: "Gomti Nagar"}
	if err := db.CreateOrder(o); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := db.UpdateDriverLocation(o.ID, 26.85, 80.94, "driver-1"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := db.GetOrder(o.ID)
	if got.DriverLat == nil || *got.DriverLat != 26.85 {
		t.Errorf("DriverLat = %v", got.DriverLat)
	}
	if got.DeliveryStatus != "out-for-delivery" {
		t.Errorf("DeliveryStatus = %q, want out-for-delivery", got.DeliveryStatus)
	}
	if got.LocationAt == nil {
		t.Error("LocationAt should be stamped")
	}

	// Terminal status is not clobbered by late reports
	db.SetDeliveryStatus(o.ID, "delivered")
	if err := db.UpdateDriverLocation(o.ID, 26.86, 80.95, ""); err != nil {
		t.Fatalf("late update: %v", err)
	}
	got, _ = db.GetOrder(o.ID)
	if got.DeliveryStatus != "delivered" {
		t.Errorf("DeliveryStatus = %q, want delivered", got.DeliveryStatus)
	}
	if *got.DriverLat != 26.86 {
		t.Errorf("DriverLat = %v, want 26.86", *got.DriverLat)
	}

	// Unknown order is not an error; reports are best-effort
	if err := db.UpdateDriverLocation("missing", 1, 2, ""); err != nil {
		t.Errorf("missing order: %v", err)
	}
}

func TestLeadCRUD(t *testing.T) {
	db := testDB(t)

	l := &Lead{Name: "Priya", Phone: "+915550111", Email: "p@example.com", EventDate: "2026-09-15", Guests: 120, Message: "wedding"}
	if err := db.CreateLead(l); err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.ID == 0 {
		t.Fatal("ID should be assigned")
	}
	if l.Status != "new" {
		t.Errorf("Status = %q, want new", l.Status)
	}

	got, err := db.GetLead(l.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Guests != 120 {
		t.Errorf("Guests = %d, want 120", got.Guests)
	}

	if err := db.SetLeadStatus(l.ID, "contacted"); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, _ = db.GetLead(l.ID)
	if got.Status != "contacted" {
		t.Errorf("Status = %q, want contacted", got.Status)
	}

	leads, err := db.ListLeads()
	if err != nil || len(leads) != 1 {
		t.Fatalf("list: %v, len %d", err, len(leads))
	}

	if err := db.DeleteLead(l.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.GetLead(l.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
	if err := db.DeleteLead(l.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete = %v, want ErrNotFound", err)
	}
}

func TestAdminUsers(t *testing.T) {
	db := testDB(t)

	if err := db.EnsureAdminUser("admin", "hash1"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	// Second ensure keeps the existing hash
	if err := db.EnsureAdminUser("admin", "hash2"); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	u, err := db.GetAdminUser("admin")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.PasswordHash != "hash1" {
		t.Errorf("PasswordHash = %q, want hash1", u.PasswordHash)
	}

	if err := db.UpdateAdminPassword("admin", "hash3"); err != nil {
		t.Fatalf("update: %v", err)
	}
	u, _ = db.GetAdminUser("admin")
	if u.PasswordHash != "hash3" {
		t.Errorf("PasswordHash = %q, want hash3", u.PasswordHash)
	}

	if _, err := db.GetAdminUser("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAdminUser(nobody) = %v, want ErrNotFound", err)
	}
}
