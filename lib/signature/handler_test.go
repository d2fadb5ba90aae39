package signature

import (
	"bytes"
	"context"
	"esign-backend/lib/assets"
	filestorage "esign-backend/lib/file-storage"
	"esign-backend/models"
	dbmodels "esign-backend/models/db"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	list []dbmodels.Signature
}

func (f *fakeStore) Create(rec dbmodels.Signature) (string, error) {
	f.list = append(f.list, rec)
	return rec.ID, nil
}

func (f *fakeStore) GetByID(id string) (*dbmodels.Signature, error) {
	for _, rec := range f.list {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetByIDAndUser(id, userID string) (*dbmodels.Signature, error) {
	rec, _ := f.GetByID(id)
	if rec == nil || rec.UserID != userID {
		return nil, nil
	}
	return rec, nil
}

func (f *fakeStore) List(userID string) ([]dbmodels.Signature, error) {
	result := make([]dbmodels.Signature, 0)
	for _, rec := range f.list {
		if rec.UserID == userID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func pngImage(t *testing.T) []byte {
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestSignatureHandler(t *testing.T) {
	ctx := context.Background()
	storage := filestorage.NewMemory()
	handler := NewInstance(&fakeStore{}, storage, assets.NewInstance(storage, "https://sign.example.org", 64))
	officer := models.Actor{UserID: "officer-1", Role: models.UserRoleOfficer}
	other := models.Actor{UserID: "officer-2", Role: models.UserRoleOfficer}
	body := pngImage(t)

	view, err := handler.Upload(ctx, officer, models.File{FileName: "подпись", Body: body})
	require.NoError(t, err)
	require.Equal(t, "подпись.png", view.FileName)

	t.Run("только изображения", func(t *testing.T) {
		_, err := handler.Upload(ctx, officer, models.File{FileName: "a.txt", Body: []byte("text")})
		require.True(t, models.IsKind(err, models.ErrValidation))

		_, err = handler.Upload(ctx, officer, models.File{FileName: "a.png"})
		require.True(t, models.IsKind(err, models.ErrValidation))
	})
	t.Run("список только своих", func(t *testing.T) {
		list, err := handler.List(officer)
		require.NoError(t, err)
		require.Len(t, list, 1)

		list, err = handler.List(other)
		require.NoError(t, err)
		require.Empty(t, list)
	})
	t.Run("изображение", func(t *testing.T) {
		data, contentType, err := handler.Image(ctx, officer, view.ID)
		require.NoError(t, err)
		require.Equal(t, body, data)
		require.Equal(t, "image/png", contentType)

		_, _, err = handler.Image(ctx, other, view.ID)
		require.True(t, models.IsKind(err, models.ErrNotFound))
	})
}
