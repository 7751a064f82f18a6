package tray

import "fyne.io/fyne/v2"

// SVGContent is the tray icon: a dashed selection frame with a pen mark.
const SVGContent = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16" width="16" height="16">
  <rect x="2" y="3" width="10" height="8" fill="none" stroke="#222222" stroke-width="1.4" stroke-dasharray="2,1"/>
  <rect x="5" y="5.5" width="4" height="3" fill="none" stroke="#e02020" stroke-width="1"/>
  <line x1="10.5" y1="13.5" x2="14" y2="10" stroke="#222222" stroke-width="1.4" stroke-linecap="round"/>
</svg>`

// Icon is SVGContent as a fyne resource.
var Icon = fyne.NewStaticResource("snapshot.svg", []byte(SVGContent))
