package layout

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/pdfs"
)

// Play draws the instructions in order. An image that is absent or rejected by the
// writer is replaced by its fallback; optional assets never abort a render.
func Play(w pdfs.Writer, instrs []Instruction) error {
	for i := range instrs {
		if err := play(w, &instrs[i]); err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	return nil
}

func play(w pdfs.Writer, in *Instruction) error {
	switch in.Op {
	case OpRect:
		w.SetDrawColor(in.Stroke)
		w.SetFillColor(in.Fill)
		w.SetLineWidth(in.LineWidth)
		w.Rect(in.X, in.Y, in.W, in.H, in.Style)
	case OpCircle:
		w.SetDrawColor(in.Stroke)
		w.SetFillColor(in.Fill)
		w.SetLineWidth(in.LineWidth)
		w.Circle(in.X, in.Y, in.R, in.Style)
	case OpLine:
		w.SetDrawColor(in.Stroke)
		w.SetLineWidth(in.LineWidth)
		w.Line(in.X, in.Y, in.X2, in.Y2)
	case OpText:
		w.SetTextColor(in.Color)
		w.SetFont(in.Font.Family, in.Font.Style, in.Font.Size)
		w.Text(in.X, in.Y, in.Text)
	case OpImage:
		if in.Image == nil {
			return Play(w, in.Fallback)
		}
		if in.Alpha > 0 && in.Alpha < 1 {
			w.SetAlpha(in.Alpha)
			defer w.SetAlpha(1)
		}
		if err := w.Image(in.Image.Name, in.Image.Data, in.Image.Type, in.X, in.Y, in.W, in.H); err != nil {
			zap.L().Warn("image rejected, drawing fallback",
				zap.String("component", "layout"),
				zap.String("image", in.Image.Name),
				zap.Error(err))
			return Play(w, in.Fallback)
		}
	default:
		return fmt.Errorf("unknown op %s", in.Op)
	}
	return nil
}
