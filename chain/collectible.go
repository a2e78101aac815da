package chain

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/anjiri1684/skill_swap/models"
)

const unitNamePrefix = "SS"

var badgeImages = []string{
	"https://ipfs.io/ipfs/bafkreifc3iyuu6awjfesdguq3wnrdogo3qhhhazbaubixeaeqdscdjzgsq",
	"https://ipfs.io/ipfs/bafkreicverscybyg7qclfgy7sq2kvndbzlyumiolwbj36awn2fg3vamh5a",
	"https://ipfs.io/ipfs/bafkreif3zcbarpibphcmtq77jsqynkn6mr3uuftxaqyqfitfenibuie7li",
}

type heldAsset struct {
	id       uint64
	unitName string
}

// IssueCollectible mints a single-unit, indivisible asset owned by owner as a
// receipt for a booking (sessionID nil) or a completed session. Issuance is
// best effort: failures are logged and nil is returned.
func (c *Client) IssueCollectible(ctx context.Context, owner string, signer Signer, skillID int64, sessionID *int64) *models.CollectibleRecord {
	record, err := c.issueCollectible(ctx, owner, signer, skillID, sessionID)
	if err != nil {
		c.log.Warn().Err(err).Str("owner", owner).Int64("skill_id", skillID).Msg("collectible issuance failed")
		return nil
	}
	c.log.Info().Uint64("asset_id", record.AssetID).Str("owner", owner).Msg("collectible issued")
	return record
}

func (c *Client) issueCollectible(ctx context.Context, owner string, signer Signer, skillID int64, sessionID *int64) (*models.CollectibleRecord, error) {
	if !canSignFor(signer, owner) {
		return nil, fmt.Errorf("%w: %v", ErrCollectibleIssuanceFailed, ErrWalletNotConnected)
	}

	serial := skillID
	kind, verb := "Booking", "booking"
	if sessionID != nil {
		serial = *sessionID
		kind, verb = "Completion", "completing"
	}
	image := BadgeImage(serial)
	name := fmt.Sprintf("skillXchange Session #%d", serial)

	meta := models.CollectibleMetadata{
		Name:        name,
		Description: fmt.Sprintf("NFT Reward for %s a session", verb),
		Image:       image,
		Attributes: []models.CollectibleAttribute{
			{TraitType: "Skill ID", Value: strconv.FormatInt(skillID, 10)},
			{TraitType: "Date", Value: time.Now().UTC().Format(time.RFC3339)},
			{TraitType: "Type", Value: kind},
		},
	}
	doc, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: encode metadata: %v", ErrCollectibleIssuanceFailed, err)
	}
	hash := sha256.Sum256(doc)

	var metadataURL string
	if c.metadataHost != nil {
		url, err := c.metadataHost.UploadJSON(ctx, fmt.Sprintf("collectible_%s_%d", owner, serial), doc)
		if err != nil {
			c.log.Warn().Err(err).Msg("metadata upload failed, minting without hosted metadata")
		} else {
			metadataURL = url
		}
	}

	callCtx, cancel := c.withTimeout(ctx)
	defer cancel()
	params, err := c.node.SuggestedParams(callCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: suggested params: %v", ErrCollectibleIssuanceFailed, err)
	}
	tx, err := transaction.MakeAssetCreateTxn(owner, nil, params, 1, 0, false,
		owner, owner, owner, owner, UnitName(serial), name, image, string(hash[:]))
	if err != nil {
		return nil, fmt.Errorf("%w: build transaction: %v", ErrCollectibleIssuanceFailed, err)
	}
	txID, stx, err := signer.SignTransaction(tx)
	if err != nil {
		return nil, fmt.Errorf("%w: sign: %v", ErrCollectibleIssuanceFailed, err)
	}
	if _, err := c.node.SendRawTransaction(callCtx, stx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollectibleIssuanceFailed, err)
	}

	waitCtx, waitCancel := c.confirmationContext(ctx)
	defer waitCancel()
	info, err := c.node.WaitForConfirmation(waitCtx, txID, c.confirmRounds)
	if info.PoolError != "" {
		return nil, fmt.Errorf("%w: rejected: %s", ErrCollectibleIssuanceFailed, info.PoolError)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: confirmation: %v", ErrCollectibleIssuanceFailed, err)
	}
	if info.AssetIndex == 0 {
		return nil, fmt.Errorf("%w: no asset id in confirmation", ErrCollectibleIssuanceFailed)
	}

	c.rememberAsset(info.AssetIndex, assetInfo{decimals: 0, unitName: UnitName(serial)})
	record := &models.CollectibleRecord{
		AssetID:     info.AssetIndex,
		Owner:       owner,
		SkillID:     skillID,
		Metadata:    meta,
		MetadataURL: metadataURL,
		TxID:        txID,
		CreatedAt:   time.Now(),
	}
	if sessionID != nil {
		record.SessionID = *sessionID
	}
	return record, nil
}

// ListOwnedCollectibles returns the ids of assets address holds exactly one
// unit of, that are not frozen and have zero decimals.
func (c *Client) ListOwnedCollectibles(ctx context.Context, address string) Result[[]uint64] {
	held := c.collectibles(ctx, address)
	if held.Failed {
		return failed[[]uint64](held.Err)
	}
	ids := make([]uint64, 0, len(held.Value))
	for _, a := range held.Value {
		ids = append(ids, a.id)
	}
	return ok(ids)
}

func (c *Client) collectibles(ctx context.Context, address string) Result[[]heldAsset] {
	if !ValidateAddress(address) {
		return failed[[]heldAsset](fmt.Errorf("%w: %s", ErrInvalidAddress, address))
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	holdings, err := c.indexer.AccountAssets(ctx, address)
	if err != nil {
		c.log.Warn().Err(err).Str("address", address).Msg("asset holdings lookup failed")
		return failed[[]heldAsset](fmt.Errorf("%w: holdings: %v", ErrQueryFailed, err))
	}

	held := make([]heldAsset, 0)
	for _, h := range holdings {
		if h.Amount != 1 || h.AssetId == 0 || h.IsFrozen {
			continue
		}
		info, err := c.assetInfo(ctx, h.AssetId)
		if err != nil {
			return failed[[]heldAsset](fmt.Errorf("%w: asset %d: %v", ErrQueryFailed, h.AssetId, err))
		}
		if info.decimals != 0 {
			continue
		}
		held = append(held, heldAsset{id: h.AssetId, unitName: info.unitName})
	}
	return ok(held)
}

// assetInfo caches asset parameters; decimals and unit name never change
// after creation.
func (c *Client) assetInfo(ctx context.Context, assetID uint64) (assetInfo, error) {
	c.assetsMu.RLock()
	info, found := c.assets[assetID]
	c.assetsMu.RUnlock()
	if found {
		return info, nil
	}

	asset, err := c.indexer.Asset(ctx, assetID)
	if err != nil {
		return assetInfo{}, err
	}
	info = assetInfo{decimals: asset.Params.Decimals, unitName: asset.Params.UnitName}
	c.rememberAsset(assetID, info)
	return info, nil
}

func (c *Client) rememberAsset(assetID uint64, info assetInfo) {
	c.assetsMu.Lock()
	c.assets[assetID] = info
	c.assetsMu.Unlock()
}

// CollectibleMetadata describes an asset for display.
func (c *Client) CollectibleMetadata(ctx context.Context, assetID uint64) Result[*models.Collectible] {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	asset, err := c.indexer.Asset(ctx, assetID)
	if err != nil {
		c.log.Warn().Err(err).Uint64("asset_id", assetID).Msg("asset lookup failed")
		return failed[*models.Collectible](fmt.Errorf("%w: asset %d: %v", ErrQueryFailed, assetID, err))
	}
	p := asset.Params
	name := p.Name
	if name == "" {
		name = fmt.Sprintf("NFT #%d", assetID)
	}
	return ok(&models.Collectible{
		ID:       assetID,
		Name:     name,
		UnitName: p.UnitName,
		Creator:  p.Creator,
		URL:      p.Url,
		Image:    ResolveIPFS(p.Url),
		Total:    p.Total,
	})
}

// OwnsCollectible reports whether address holds at least one unit of assetID.
func (c *Client) OwnsCollectible(ctx context.Context, assetID uint64, address string) Result[bool] {
	if !ValidateAddress(address) {
		return failed[bool](fmt.Errorf("%w: %s", ErrInvalidAddress, address))
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	holdings, err := c.indexer.AccountAssets(ctx, address)
	if err != nil {
		return failed[bool](fmt.Errorf("%w: holdings: %v", ErrQueryFailed, err))
	}
	for _, h := range holdings {
		if h.AssetId == assetID && h.Amount > 0 {
			return ok(true)
		}
	}
	return ok(false)
}

// ClaimCollectible confirms that address already holds assetID. Collectibles
// are minted straight into the booking wallet, so there is nothing to move.
func (c *Client) ClaimCollectible(ctx context.Context, address string, assetID uint64) Result[bool] {
	owned := c.OwnsCollectible(ctx, assetID, address)
	if owned.Failed {
		c.log.Warn().Err(owned.Err).Uint64("asset_id", assetID).Msg("claim check failed")
		return owned
	}
	if owned.Value {
		c.log.Info().Str("address", address).Uint64("asset_id", assetID).Msg("collectible already owned")
	}
	return owned
}

// TransferCollectible moves the single unit of assetID from one account to
// another. The receiver must already be opted in to the asset.
func (c *Client) TransferCollectible(ctx context.Context, assetID uint64, from, to string, signer Signer) (string, error) {
	if !canSignFor(signer, from) {
		return "", ErrWalletNotConnected
	}
	if !ValidateAddress(to) {
		return "", fmt.Errorf("%w: receiver", ErrInvalidAddress)
	}

	callCtx, cancel := c.withTimeout(ctx)
	defer cancel()
	params, err := c.node.SuggestedParams(callCtx)
	if err != nil {
		return "", fmt.Errorf("%w: suggested params: %v", ErrPaymentRejected, err)
	}
	tx, err := transaction.MakeAssetTransferTxn(from, to, 1, nil, params, "", assetID)
	if err != nil {
		return "", fmt.Errorf("%w: build transaction: %v", ErrPaymentRejected, err)
	}
	txID, stx, err := signer.SignTransaction(tx)
	if err != nil {
		return "", fmt.Errorf("%w: sign: %v", ErrPaymentRejected, err)
	}
	if _, err := c.node.SendRawTransaction(callCtx, stx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentRejected, err)
	}

	waitCtx, waitCancel := c.confirmationContext(ctx)
	defer waitCancel()
	info, err := c.node.WaitForConfirmation(waitCtx, txID, c.confirmRounds)
	if info.PoolError != "" {
		return "", fmt.Errorf("%w: %s", ErrPaymentRejected, info.PoolError)
	}
	if err != nil {
		return txID, fmt.Errorf("%w: %v", ErrPaymentUnconfirmed, err)
	}
	c.log.Info().Uint64("asset_id", assetID).Str("from", from).Str("to", to).Msg("collectible transferred")
	return txID, nil
}

// CompleteSession awards a completion collectible to address.
func (c *Client) CompleteSession(ctx context.Context, address string, sessionID, skillID int64, signer Signer) (string, *models.CollectibleRecord) {
	record := c.IssueCollectible(ctx, address, signer, skillID, &sessionID)
	if record == nil {
		return fmt.Sprintf("Session %d completed, but NFT creation failed.", sessionID), nil
	}
	return fmt.Sprintf("Session %d completed and NFT awarded to %s!", sessionID, address), record
}

// UnitName is "SS" followed by the last three digits of serial.
func UnitName(serial int64) string {
	digits := strconv.FormatInt(serial, 10)
	if len(digits) > 3 {
		digits = digits[len(digits)-3:]
	}
	return unitNamePrefix + digits
}

// BadgeImage picks one of the badge images for serial.
func BadgeImage(serial int64) string {
	if serial < 0 {
		serial = -serial
	}
	return badgeImages[serial%int64(len(badgeImages))]
}

// ResolveIPFS rewrites ipfs:// URLs to the public ipfs.io gateway.
func ResolveIPFS(url string) string {
	if strings.HasPrefix(url, "ipfs://") {
		return "https://ipfs.io/ipfs/" + strings.TrimPrefix(url, "ipfs://")
	}
	return url
}
