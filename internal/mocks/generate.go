package mocks

//go:generate mockery --name SeriesStore --srcpkg github.com/aevon-lab/rainfall-explorer/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
