package store

import (
	"testing"

	"github.com/absurd-industries/guild/internal/database"
	"github.com/absurd-industries/guild/internal/model"
)

func setupBackingTestDB(t *testing.T) (*BackingStore, *CampaignStore, int64, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := NewUserStore(db)
	maker, err := us.Create("maker@example.com")
	if err != nil {
		t.Fatalf("create maker: %v", err)
	}
	backer, err := us.Create("backer@example.com")
	if err != nil {
		t.Fatalf("create backer: %v", err)
	}

	cs := NewCampaignStore(db)
	c, err := cs.Create(maker.ID, CampaignData{Title: "Lumen Cube", FundingGoal: 100000})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	if err := cs.UpdateStatus(maker.ID, c.ID, model.CampaignStatusActive); err != nil {
		t.Fatalf("launch campaign: %v", err)
	}

	return NewBackingStore(db), cs, c.ID, backer.ID
}

func TestBackingCreate(t *testing.T) {
	bs, _, campaignID, backerID := setupBackingTestDB(t)

	b, err := bs.Create(campaignID, backerID, BackingData{
		RewardTitle:      "Lumen Cube v2",
		RewardPrice:      4999_00,
		CommitmentAmount: 1999_60,
		ShippingName:     "Amit",
		ShippingAddress:  "42 Absurd Lane",
		ShippingCity:     "Bengaluru",
		ShippingState:    "Karnataka",
		ShippingPincode:  "560001",
	})
	if err != nil {
		t.Fatalf("create backing: %v", err)
	}
	if b.Status != "committed" {
		t.Errorf("status = %q, want committed", b.Status)
	}
	if b.CommitmentAmount != 1999_60 {
		t.Errorf("commitment = %d, want 199960", b.CommitmentAmount)
	}
}

func TestBackingLists(t *testing.T) {
	bs, _, campaignID, backerID := setupBackingTestDB(t)

	bs.Create(campaignID, backerID, BackingData{RewardTitle: "Reward", RewardPrice: 1000, CommitmentAmount: 400, ShippingName: "A", ShippingAddress: "B", ShippingCity: "C", ShippingState: "D", ShippingPincode: "560001"})
	bs.Create(campaignID, backerID, BackingData{RewardTitle: "Reward", RewardPrice: 1000, CommitmentAmount: 400, ShippingName: "A", ShippingAddress: "B", ShippingCity: "C", ShippingState: "D", ShippingPincode: "560001"})

	byCampaign, err := bs.ListByCampaign(campaignID)
	if err != nil {
		t.Fatalf("list by campaign: %v", err)
	}
	if len(byCampaign) != 2 {
		t.Errorf("by campaign = %d, want 2", len(byCampaign))
	}

	byBacker, err := bs.ListByBacker(backerID)
	if err != nil {
		t.Fatalf("list by backer: %v", err)
	}
	if len(byBacker) != 2 {
		t.Errorf("by backer = %d, want 2", len(byBacker))
	}
}

func TestBackingTotalCommitted(t *testing.T) {
	bs, _, campaignID, backerID := setupBackingTestDB(t)

	total, err := bs.TotalCommitted(campaignID)
	if err != nil {
		t.Fatalf("total committed: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0 with no backings", total)
	}

	bs.Create(campaignID, backerID, BackingData{RewardTitle: "Reward", RewardPrice: 1000, CommitmentAmount: 400, ShippingName: "A", ShippingAddress: "B", ShippingCity: "C", ShippingState: "D", ShippingPincode: "560001"})
	bs.Create(campaignID, backerID, BackingData{RewardTitle: "Reward", RewardPrice: 1000, CommitmentAmount: 250, ShippingName: "A", ShippingAddress: "B", ShippingCity: "C", ShippingState: "D", ShippingPincode: "560001"})

	total, err = bs.TotalCommitted(campaignID)
	if err != nil {
		t.Fatalf("total committed: %v", err)
	}
	if total != 650 {
		t.Errorf("total = %d, want 650", total)
	}
}
