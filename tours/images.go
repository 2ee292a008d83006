package tours

import (
	"context"
	"net/http"
	"time"

	"roamly/apperror"
	"roamly/db"
	"roamly/filedrop"
	"roamly/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// UploadTourImages accepts multipart form fields "imageCover" (single)
// and "images" (up to three), processes them to the catalog dimensions
// and writes the stored filenames onto the tour. Either field may be
// omitted.
func UploadTourImages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	tourID := ps.ByName("id")
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		apperror.WriteAPI(w, r, apperror.Validation("Invalid multipart form"))
		return
	}

	update := bson.M{}

	if covers := r.MultipartForm.File["imageCover"]; len(covers) > 0 {
		name, err := filedrop.SaveTourCover(covers[0], tourID)
		if err != nil {
			apperror.WriteAPI(w, r, apperror.Validation(err.Error()))
			return
		}
		update["imageCover"] = name
	}

	if gallery := r.MultipartForm.File["images"]; len(gallery) > 0 {
		names, err := filedrop.SaveTourImages(gallery, tourID)
		if err != nil {
			apperror.WriteAPI(w, r, apperror.Validation(err.Error()))
			return
		}
		update["images"] = names
	}

	if len(update) == 0 {
		apperror.WriteAPI(w, r, apperror.Validation("No images uploaded"))
		return
	}

	res, err := db.TourCollection.UpdateOne(ctx,
		bson.M{"tourid": tourID}, bson.M{"$set": update})
	if err != nil {
		apperror.WriteAPI(w, r, apperror.Internal(err))
		return
	}
	if res.MatchedCount == 0 {
		apperror.WriteAPI(w, r, apperror.NotFound("No tour found with that ID"))
		return
	}

	utils.SendData(w, http.StatusOK, map[string]any{"updated": update})
}
