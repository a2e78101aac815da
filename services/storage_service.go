package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	metadataFolder    = "skill_swap_collectibles"
	certificateFolder = "skill_swap_certificates"
	avatarFolder      = "skill_swap_mentors"
	uploadTimeout     = 10 * time.Second
)

// Storage publishes files to Cloudinary: collectible metadata documents,
// completion certificates and signed mentor avatar uploads.
type Storage struct {
	cld    *cloudinary.Cloudinary
	secret string
}

func NewStorage(cloudinaryURL string) (*Storage, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	parsed, err := url.Parse(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("parse cloudinary url: %w", err)
	}
	secret, _ := parsed.User.Password()
	return &Storage{cld: cld, secret: secret}, nil
}

// UploadJSON stores a collectible metadata document as a raw file.
func (s *Storage) UploadJSON(ctx context.Context, publicID string, doc []byte) (string, error) {
	return s.upload(ctx, doc, publicID, metadataFolder)
}

func (s *Storage) UploadCertificate(ctx context.Context, pdf []byte, owner string) (string, error) {
	publicID := fmt.Sprintf("%s_%d", owner, time.Now().UnixNano())
	return s.upload(ctx, pdf, publicID, certificateFolder)
}

func (s *Storage) upload(ctx context.Context, data []byte, publicID, folder string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	res, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       folder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

// AvatarUploadSignature signs a direct browser upload of a mentor avatar.
func (s *Storage) AvatarUploadSignature() (UploadSignature, error) {
	params, err := api.StructToParams(uploader.UploadParams{Folder: avatarFolder})
	if err != nil {
		return UploadSignature{}, fmt.Errorf("prepare signature params: %w", err)
	}
	timestamp := time.Now().Unix()
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(params, s.secret)
	if err != nil {
		return UploadSignature{}, fmt.Errorf("sign upload params: %w", err)
	}
	return UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    s.cld.Config.Cloud.APIKey,
		CloudName: s.cld.Config.Cloud.CloudName,
		Folder:    avatarFolder,
	}, nil
}
