package models

import "time"

type CollectibleAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// CollectibleMetadata is the JSON document hashed into an issued asset.
type CollectibleMetadata struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Image       string                 `json:"image"`
	Attributes  []CollectibleAttribute `json:"attributes"`
}

// Collectible describes an on-chain collectible as read back from the indexer.
type Collectible struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	UnitName string `json:"unit_name"`
	Creator  string `json:"creator"`
	URL      string `json:"url"`
	Image    string `json:"image"`
	Total    uint64 `json:"total"`
}

type CollectibleRecord struct {
	AssetID     uint64              `json:"asset_id"`
	Owner       string              `json:"owner"`
	SkillID     int64               `json:"skill_id"`
	SessionID   int64               `json:"session_id,omitempty"`
	Metadata    CollectibleMetadata `json:"metadata"`
	MetadataURL string              `json:"metadata_url,omitempty"`
	TxID        string              `json:"tx_id"`
	CreatedAt   time.Time           `json:"created_at"`
}
