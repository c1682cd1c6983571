package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "contractlens.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCompanyCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateCompany(ctx, CompanyProfile{Name: "Acme Rentals", Industry: "Equipment"})
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated company id")
	}

	got, err := s.GetCompany(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetCompany: %v", err)
	}
	if got.Name != "Acme Rentals" || got.Industry != "Equipment" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	byName, err := s.GetCompanyByName(ctx, "Acme Rentals")
	if err != nil || byName.ID != created.ID {
		t.Fatalf("GetCompanyByName: %v %+v", err, byName)
	}

	got.Description = "Heavy equipment rental"
	updated, err := s.UpdateCompany(ctx, got)
	if err != nil {
		t.Fatalf("UpdateCompany: %v", err)
	}
	if updated.Description != "Heavy equipment rental" {
		t.Fatalf("update not applied: %+v", updated)
	}

	all, err := s.ListCompanies(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("ListCompanies: %v %d", err, len(all))
	}

	if err := s.DeleteCompany(ctx, created.ID); err != nil {
		t.Fatalf("DeleteCompany: %v", err)
	}
	if _, err := s.GetCompany(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCompanyNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetCompany(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.UpdateCompany(ctx, CompanyProfile{ID: "missing", Name: "X"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if err := s.DeleteCompany(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestCreateCompanyRequiresName(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateCompany(context.Background(), CompanyProfile{Name: "   "}); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestPrioritiesOrderedAndReplaced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCompany(ctx, CompanyProfile{Name: "Acme"})
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}

	first := []CompanyPriority{
		{Name: "Cash flow", Description: "net 30 payment terms"},
		{Name: "Liability cap", Description: "cap at contract value"},
	}
	if err := s.ReplacePriorities(ctx, c.ID, first); err != nil {
		t.Fatalf("ReplacePriorities: %v", err)
	}

	got, err := s.ListPriorities(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListPriorities: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Cash flow" || got[1].Name != "Liability cap" {
		t.Fatalf("priority order not preserved: %+v", got)
	}

	second := []CompanyPriority{{Name: "IP ownership"}}
	if err := s.ReplacePriorities(ctx, c.ID, second); err != nil {
		t.Fatalf("ReplacePriorities (replace): %v", err)
	}
	got, err = s.ListPriorities(ctx, c.ID)
	if err != nil || len(got) != 1 || got[0].Name != "IP ownership" {
		t.Fatalf("replacement did not take: %v %+v", err, got)
	}
}

func TestListPrioritiesUnknownCompanyIsEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.ListPriorities(context.Background(), "no-such-company")
	if err != nil {
		t.Fatalf("ListPriorities: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
}

func TestReplacePrioritiesUnknownCompany(t *testing.T) {
	s := newTestStore(t)
	err := s.ReplacePriorities(context.Background(), "no-such-company", []CompanyPriority{{Name: "X"}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalysisHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateAnalysis(ctx, Analysis{
		UserID:         "user-1",
		CompanyName:    "Acme",
		SellerFilename: "seller.pdf",
		BuyerFilename:  "buyer.pdf",
		Summary:        "=== CONTRACT ANALYSIS REPORT FOR ACME ===",
		DroppedChunks:  2,
	})
	if err != nil {
		t.Fatalf("CreateAnalysis: %v", err)
	}
	if a.AnalysisID == "" {
		t.Fatal("expected generated analysis id")
	}

	got, err := s.GetAnalysis(ctx, a.AnalysisID)
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	if got.Summary != a.Summary || got.DroppedChunks != 2 || got.CompanyName != "Acme" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if _, err := s.CreateAnalysis(ctx, Analysis{UserID: "user-2"}); err != nil {
		t.Fatalf("CreateAnalysis: %v", err)
	}

	list, err := s.ListAnalysesByUser(ctx, "user-1", 0)
	if err != nil {
		t.Fatalf("ListAnalysesByUser: %v", err)
	}
	if len(list) != 1 || list[0].AnalysisID != a.AnalysisID {
		t.Fatalf("user scoping broken: %+v", list)
	}

	if _, err := s.GetAnalysis(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
