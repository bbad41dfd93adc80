package tool

import (
	"context"
	"path/filepath"

	"github.com/farcloser/komposer/internal/output"
)

// ListFiles implements list_files: every registered source file.
func (s *Service) ListFiles() map[string]any {
	handles, err := s.reg.ListSourceFiles()
	if err != nil {
		return output.FailureErr(err)
	}

	files := make([]any, 0, len(handles))
	for _, h := range handles {
		files = append(files, map[string]any{
			"id":        h.ID,
			"name":      filepath.Base(h.Path),
			"size":      h.Size,
			"extension": h.Extension,
		})
	}

	return output.Success(map[string]any{"files": files})
}

// ListGeneratedFiles implements list_generated_files: every generated/temp
// handle issued so far in this process.
func (s *Service) ListGeneratedFiles() map[string]any {
	handles := s.reg.ListGeneratedFiles()

	return output.Success(map[string]any{
		"files":       output.FileHandlesToMap(handles),
		"total_count": len(handles),
	})
}

// GetFileInfo implements get_file_info: id's probed MediaInfo.
func (s *Service) GetFileInfo(ctx context.Context, id string) map[string]any {
	path, err := s.reg.Resolve(id)
	if err != nil {
		return output.FailureErr(err)
	}

	info, err := s.probes.Probe(ctx, path)
	if err != nil {
		return output.FailureErr(err)
	}

	return output.Success(map[string]any{"media_info": output.MediaInfoToMap(info)})
}

// CleanupTempFiles implements cleanup_temp_files: removes every registered
// temp handle, regardless of age (the tool surface exposes no "older
// than" parameter, so every currently registered temp file is eligible).
func (s *Service) CleanupTempFiles() map[string]any {
	removed, err := s.reg.CleanupTemp(0)
	if err != nil {
		return output.FailureErr(err)
	}

	return output.Success(map[string]any{"removed": removed})
}
