package handlers

import (
	"chatapp-client/internal/resource"
	"chatapp-client/internal/storage"
	"net/http"
)

// UploadPicture replaces the profile picture with the "picture" form file.
func (s *Server) UploadPicture(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxPictureSize+1<<20)
	err := r.ParseMultipartForm(1 << 20)
	if err != nil {
		s.sugar.Debug(err)
		http.Error(w, "Couldn't read the upload", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("picture")
	if err != nil {
		s.sugar.Debug(err)
		http.Error(w, "No picture was provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	updated, err := resource.Await(r.Context(), s.uc.UploadProfilePicture.Invoke(r.Context(), user.ID, file))
	if err != nil {
		s.fail(w, err.Error())
		return
	}

	s.respond(w, updated)
}
