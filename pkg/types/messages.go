package types

// Client -> Server (all messages: {"type": ..., ...fields})
// request_game_state:
//   gameId: string (default "main")
//
// reveal_card:
//   gameId: string
//   cardIndex: number (0-24)
//
// give_clue:
//   gameId: string
//   clue: string
//   number: number (0-9)
//
// end_turn:
//   gameId: string
//
// cursor_position:
//   playerId: string
//   x: number
//   y: number
//
// cursor_move (observed/logged only):
//   playerId: string
//   cardIndex: number
//   word: string

// Server -> Client (envelope: {"type": ..., "data": {...}})
// connection_response:
//   status: "connected"
//
// game_state (unicast reply to request_game_state):
//   grid: [{word, team, revealed}] x25
//   current_turn: "red" | "blue"
//   current_clue: string | null
//   clue_number: number
//   guesses_made: number
//   guesses_allowed: number
//   red_remaining: number
//   blue_remaining: number
//   game_over: boolean
//   winner: "red" | "blue" | null
//
// game_state_update (broadcast after a reveal):
//   cardIndex: number
//   team: "red" | "blue" | "neutral" | "assassin"
//   ...plus the full counter block from game_state (minus grid)
//
// clue_given (broadcast):
//   clue: string
//   number: number
//   team: "red" | "blue"
//   guesses_allowed: number
//
// turn_ended (broadcast after a manual pass):
//   current_turn: "red" | "blue"
//
// player_cursor (broadcast):
//   playerId: string
//   x: number
//   y: number
//
// game_reset (broadcast after POST /reset/{gameId}):
//   gameId: string
//
// error (unicast):
//   message: string
