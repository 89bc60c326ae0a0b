package entity

import (
	"time"
)

type User struct {
	ID          string `json:"id" firestore:"id"`
	FirebaseUID string `json:"firebase_uid" firestore:"firebaseUid"`
	Email       string `json:"email" firestore:"email"`
	Name        string `json:"name,omitempty" firestore:"name,omitempty"`

	PlanID string `json:"plan_id" firestore:"planId"`
	// StorageUsed counts bytes of COMPLETED, non-deleted files only.
	// Mutated exclusively inside the atomic units of the upload and
	// deletion paths; never negative.
	StorageUsed int64 `json:"storage_used" firestore:"storageUsed"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
