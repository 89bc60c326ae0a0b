package entity

import (
	"time"
)

type Folder struct {
	ID      string `json:"id" firestore:"id"`
	Name    string `json:"name" firestore:"name"`
	OwnerID string `json:"owner_id" firestore:"ownerId"`
	// Empty means the folder lives at the root.
	ParentFolderID string `json:"parent_folder_id,omitempty" firestore:"parentFolderId,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
