package miniostorage

import (
	"errors"
	"reflect"
	"testing"

	"github.com/UnendingLoop/PixelVault/internal/model"
	"github.com/UnendingLoop/PixelVault/internal/service"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

var _ service.ImageStorage = (*MinioImageStorage)(nil)

func TestMinioImageStorage_MethodSet(t *testing.T) {
	typ := reflect.TypeOf((*MinioImageStorage)(nil))
	names := make([]string, 0, typ.NumMethod())
	for i := range typ.NumMethod() {
		names = append(names, typ.Method(i).Name)
	}
	// превью только кладем и читаем, физически ничего не удаляется
	require.ElementsMatch(t, []string{"Get", "Put"}, names)
}

func TestMapMinioErr(t *testing.T) {
	notFound := minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
	require.ErrorIs(t, mapMinioErr(notFound), model.ErrPreviewNotReady)

	denied := minio.ErrorResponse{Code: "AccessDenied", Message: "Access Denied."}
	err := mapMinioErr(denied)
	require.NotErrorIs(t, err, model.ErrPreviewNotReady)

	plain := errors.New("connection refused")
	require.Equal(t, plain, mapMinioErr(plain))
}

func TestPut_NilReader(t *testing.T) {
	s := &MinioImageStorage{bucket: "previews"}
	require.Error(t, s.Put(t.Context(), "k", 0, model.PNG, nil))
}
