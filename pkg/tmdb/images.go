package tmdb

// Image CDN buckets per use case. Paths returned by the API are relative
// ("/abc.jpg"); posters without an image get a placeholder so cards always
// have something to show.
const (
	imageBaseURL = "https://image.tmdb.org/t/p"

	posterSize   = "w500"
	backdropSize = "w1280"
	profileSize  = "w185"

	posterPlaceholder = "https://via.placeholder.com/500x750?text=Sem+Imagem"
)

func PosterURL(path string) string {
	if path == "" {
		return posterPlaceholder
	}
	return imageBaseURL + "/" + posterSize + path
}

func BackdropURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + "/" + backdropSize + path
}

func ProfileURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + "/" + profileSize + path
}
