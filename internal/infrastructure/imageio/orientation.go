package imageio

import (
	"image"

	"github.com/disintegration/imaging"
)

// ApplyOrientation приводит изображение к нормальному виду по значению EXIF Orientation.
// imaging поворачивает против часовой стрелки, поэтому 6 это Rotate270.
func ApplyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
