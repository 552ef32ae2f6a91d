package model

// ImageFile is a selected local image as received from the file picker.
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Submission is the payload handed to the sink when a draft passes validation.
type Submission struct {
	DraftID     string
	Title       string
	Category    string
	Price       string
	Location    string
	Description string
	Images      []ImageFile
}

func (s *Submission) ImageNames() []string {
	names := make([]string, len(s.Images))
	for i, img := range s.Images {
		names[i] = img.Name
	}
	return names
}
