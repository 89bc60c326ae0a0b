package entity

import (
	"time"
)

type PlanType string

const (
	PlanFree       PlanType = "FREE"
	PlanPro        PlanType = "PRO"
	PlanEnterprise PlanType = "ENTERPRISE"
)

type Plan struct {
	ID           string   `json:"id" firestore:"id"`
	Type         PlanType `json:"type" firestore:"type"`
	Name         string   `json:"name" firestore:"name"`
	StorageLimit int64    `json:"storage_limit" firestore:"storageLimit"`
	PriceMonthly int64    `json:"price_monthly" firestore:"priceMonthly"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
