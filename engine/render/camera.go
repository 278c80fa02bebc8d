package render

import "math"

// Camera maps the planar world (+Y up) onto the screen (+Y down)
type Camera struct {
	X, Y    float64 // world point at the screen centre
	Zoom    float64 // zoom level (1.0 = default)
	MinZoom float64
	MaxZoom float64
	Scale   float64 // pixels per world unit at zoom 1
	ScreenW int     // viewport width in pixels
	ScreenH int     // viewport height in pixels
	Follow  bool    // keep the car centred
}

// NewCamera creates a camera centred on the world origin
func NewCamera(screenW, screenH int, scale float64) *Camera {
	return &Camera{
		Zoom:    1.0,
		MinZoom: 0.1,
		MaxZoom: 5.0,
		Scale:   scale,
		ScreenW: screenW,
		ScreenH: screenH,
	}
}

// PixelsPerUnit is the effective scale after zoom
func (c *Camera) PixelsPerUnit() float64 {
	return c.Scale * c.Zoom
}

// SetZoom sets zoom level with clamping
func (c *Camera) SetZoom(z float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, z))
}

// ZoomAt zooms toward a screen point
func (c *Camera) ZoomAt(delta float64, screenX, screenY float64) {
	// Convert screen point to world before zoom
	wx, wy := c.ScreenToWorld(screenX, screenY)
	c.SetZoom(c.Zoom + delta)
	// Convert same screen point to world after zoom
	wx2, wy2 := c.ScreenToWorld(screenX, screenY)
	// Adjust camera to keep the point stationary
	c.X += wx - wx2
	c.Y += wy - wy2
}

// Pan moves the camera by a pixel delta
func (c *Camera) Pan(dx, dy float64) {
	ppu := c.PixelsPerUnit()
	c.X += dx / ppu
	c.Y -= dy / ppu
}

// CenterOn centers the camera on a world position
func (c *Camera) CenterOn(wx, wy float64) {
	c.X = wx
	c.Y = wy
}

// WorldToScreen converts a world position to screen pixels
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	ppu := c.PixelsPerUnit()
	sx := (wx-c.X)*ppu + float64(c.ScreenW)/2
	sy := -(wy-c.Y)*ppu + float64(c.ScreenH)/2
	return sx, sy
}

// ScreenToWorld converts screen pixels to a world position
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	ppu := c.PixelsPerUnit()
	wx := (sx-float64(c.ScreenW)/2)/ppu + c.X
	wy := -(sy-float64(c.ScreenH)/2)/ppu + c.Y
	return wx, wy
}

// VisibleRange returns the world-space bounding box of the viewport
func (c *Camera) VisibleRange() (minX, minY, maxX, maxY float64) {
	minX, maxY = c.ScreenToWorld(0, 0)
	maxX, minY = c.ScreenToWorld(float64(c.ScreenW), float64(c.ScreenH))
	return
}
