package shader

// Sources for drawing a premultiplied RGBA texture over the whole viewport.
// The quad carries its own texture coordinates so the image's top row lands
// at the top of the screen.
const (
	LayerVertex = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;

out vec2 vUV;

void main() {
	gl_Position = vec4(aPos, 0.0, 1.0);
	vUV = aUV;
}
`

	LayerFragment = `
#version 410 core

in vec2 vUV;
out vec4 FragColor;

uniform sampler2D uLayer;

void main() {
	FragColor = texture(uLayer, vUV);
}
`
)
