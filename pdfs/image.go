package pdfs

// Image is encoded image data ready to be placed by a Writer
type Image struct {
	Name string // registration key inside one document; same name, same bytes
	Data []byte
	Type string // ImagePNG or ImageJPEG
}

// Size returns the payload length in bytes. A nil Image has size 0.
func (img *Image) Size() int {
	if img == nil {
		return 0
	}
	return len(img.Data)
}
