package volc

// 1x1 PNG pixel base64
const mockPixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR4nGNgYAAAAAMAASsJTYQAAAAASUVORK5CYII="

const mockStoryJSON = `{
  "title": "Mock Hearts, Real Laughs",
  "scenes": [
    {"scene_number": 1, "content": "Two strangers take the wrong turn downtown and find the best taco stand in town.", "quiz": {"question": "What did they find?", "options": ["A taco stand", "A lost cat", "A jazz bar"], "correct_index": 0}, "commentary": "Every great romance starts with bad directions."},
    {"scene_number": 2, "content": "A road trip to the coast becomes a karaoke marathon.", "quiz": {"question": "What did they do on the drive?", "options": ["Slept", "Sang off-key", "Argued about maps"], "correct_index": 1}, "commentary": "The neighbours in the next lane gave it two stars."},
    {"scene_number": 3, "content": "A rainy rooftop, a nervous proposal, and a ring bouncing toward the gutter.", "quiz": {"question": "What happened to the ring?", "options": ["It was perfect", "It was forgotten", "It was dropped"], "correct_index": 2}, "commentary": "Rain machines were not required."},
    {"scene_number": 4, "content": "Popcorn night turns into a debate about the correct amount of salt.", "quiz": {"question": "Which snack wins?", "options": ["Salted caramel popcorn", "Plain crackers", "Celery"], "correct_index": 0}, "commentary": "Nobody voted for celery."},
    {"scene_number": 5, "content": "Back where it began, they get lost again, on purpose this time.", "quiz": {"question": "Where do they end up?", "options": ["At home", "Lost downtown", "At the airport"], "correct_index": 1}, "commentary": "Roll credits, cue the saxophone."}
  ],
  "bloopers": [
    "The taco stand was closed on the first take.",
    "The car radio only played polka."
  ]
}`
