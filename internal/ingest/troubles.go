package ingest

import (
	"errors"
	"fmt"

	"github.com/hbomb79/Hoard/internal/http/youtube"
)

type (
	TroubleType int

	// Trouble tags a per-step failure with the step that produced it. Step
	// boundaries catch their own errors and surface them as Trouble values
	// so the log-and-continue policy of the pipeline stays explicit, rather
	// than relying on callers to classify raw errors.
	Trouble struct {
		error
		tType TroubleType
	}
)

const (
	// ApiFailure covers transport, auth and quota failures from the
	// metadata service.
	ApiFailure TroubleType = iota

	// NotFoundFailure is a valid metadata call which matched zero videos.
	NotFoundFailure

	// AssetFailure is a failed thumbnail fetch; never fatal to the item.
	AssetFailure

	// PersistFailure is a database insert failure; never fatal to the item.
	PersistFailure

	// StoreFailure is a failed existence check against the store; it
	// aborts the item before any network work is performed.
	StoreFailure

	// DownloadFailure is a media engine failure; terminal for the item.
	DownloadFailure

	GenericFailure
)

// newMetadataTrouble classifies an error raised by the metadata client.
func newMetadataTrouble(err error) Trouble {
	var notFound *youtube.NoResultError
	if errors.As(err, &notFound) {
		return Trouble{error: err, tType: NotFoundFailure}
	}

	var failed *youtube.FailedRequestError
	var unknown *youtube.UnknownRequestError
	if errors.As(err, &failed) || errors.As(err, &unknown) {
		return Trouble{error: err, tType: ApiFailure}
	}

	return Trouble{error: err, tType: GenericFailure}
}

func newTrouble(err error, tType TroubleType) Trouble {
	return Trouble{error: err, tType: tType}
}

func (t Trouble) Type() TroubleType { return t.tType }

func (t TroubleType) String() string {
	switch t {
	case ApiFailure:
		return fmt.Sprintf("ApiFailure[%d]", t)
	case NotFoundFailure:
		return fmt.Sprintf("NotFoundFailure[%d]", t)
	case AssetFailure:
		return fmt.Sprintf("AssetFailure[%d]", t)
	case PersistFailure:
		return fmt.Sprintf("PersistFailure[%d]", t)
	case StoreFailure:
		return fmt.Sprintf("StoreFailure[%d]", t)
	case DownloadFailure:
		return fmt.Sprintf("DownloadFailure[%d]", t)
	default:
		return fmt.Sprintf("GenericFailure[%d]", t)
	}
}
