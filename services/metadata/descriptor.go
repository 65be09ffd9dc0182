package metadata

import "fmt"

// Kind tags a Descriptor with the type of lookup it requests.
type Kind string

const (
	KindMovie     Kind = "movie"
	KindTVShow    Kind = "tv_show"
	KindTVEpisode Kind = "tv_episode"
	KindAlbum     Kind = "album"
	KindArtist    Kind = "artist"
)

// Descriptor identifies what to fetch from the remote metadata service.
// Exactly one constructor form is valid per Kind.
type Descriptor struct {
	Kind          Kind
	TitleID       int64  // movie or show identifier
	SeasonNumber  int    // episode lookups only
	EpisodeNumber int    // episode lookups only
	MusicID       string // album or artist identifier
}

func MovieDescriptor(id int64) Descriptor {
	return Descriptor{Kind: KindMovie, TitleID: id}
}

func TVShowDescriptor(id int64) Descriptor {
	return Descriptor{Kind: KindTVShow, TitleID: id}
}

func TVEpisodeDescriptor(tvID int64, season, episode int) Descriptor {
	return Descriptor{Kind: KindTVEpisode, TitleID: tvID, SeasonNumber: season, EpisodeNumber: episode}
}

func AlbumDescriptor(id string) Descriptor {
	return Descriptor{Kind: KindAlbum, MusicID: id}
}

func ArtistDescriptor(id string) Descriptor {
	return Descriptor{Kind: KindArtist, MusicID: id}
}

func (d Descriptor) String() string {
	switch d.Kind {
	case KindTVEpisode:
		return fmt.Sprintf("%s %d S%02dE%02d", d.Kind, d.TitleID, d.SeasonNumber, d.EpisodeNumber)
	case KindAlbum, KindArtist:
		return fmt.Sprintf("%s %s", d.Kind, d.MusicID)
	default:
		return fmt.Sprintf("%s %d", d.Kind, d.TitleID)
	}
}
